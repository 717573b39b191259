package pagination

import (
	"fmt"

	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/text"
	"github.com/shopspring/decimal"
)

// PageKind tells the renderers what to draw on a page.
type PageKind int

const (
	// DataPage carries the table header, rows and possibly the totals row.
	DataPage PageKind = iota
	// SummaryPage is the trailing recap page.
	SummaryPage
)

func (k PageKind) String() string {
	switch k {
	case DataPage:
		return "data"
	case SummaryPage:
		return "summary"
	default:
		return fmt.Sprintf("PageKind(%d)", int(k))
	}
}

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch), portrait
var (
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
)

// Oriented returns the size with its sides swapped as needed.
func (s PageSize) Oriented(o Orientation) PageSize {
	long, short := s.Height, s.Width
	if short > long {
		long, short = short, long
	}
	if o == Landscape {
		return PageSize{Width: long, Height: short, Name: s.Name}
	}
	return PageSize{Width: short, Height: long, Name: s.Name}
}

// RowBox is one table line placed on a page.
type RowBox struct {
	// Index is the position of the row in the input, -1 for the totals row.
	Index int
	Y     float64
	// Cells holds the formatted, truncated text per column.
	Cells  []string
	Shaded bool
}

// Page is one page of the plan.
type Page struct {
	Number       int
	Kind         PageKind
	TableHeaderY float64
	Rows         []RowBox
	Totals       *RowBox
	FooterY      float64
}

// Document is the page plan consumed by the renderers.
type Document struct {
	Pages   []*Page
	Columns []report.Column
	Totals  report.Totals
	Period  report.Period
	Layout  Options
}

// PageCount returns the number of planned pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Paginator breaks rows into pages at row boundaries.
type Paginator struct {
	options Options
	columns []report.Column
	shaper  *text.Shaper
}

// NewPaginator creates a new paginator
func NewPaginator(options Options, columns []report.Column) *Paginator {
	cols := make([]report.Column, len(columns))
	for i, c := range columns {
		cols[i] = c.Normalize()
	}
	return &Paginator{
		options: options,
		columns: cols,
		shaper:  text.NewShaper(options.AvgCharWidth, options.MaxTextLength, options.TruncateMarker),
	}
}

// Options returns the layout constants.
func (p *Paginator) Options() Options {
	return p.options
}

// Columns returns the normalized columns.
func (p *Paginator) Columns() []report.Column {
	return p.columns
}

// Paginate lays out rows in input order followed by the totals row and the
// summary page. It never fails: a cell that cannot be formatted is left
// empty.
func (p *Paginator) Paginate(rows []report.Row, period report.Period) *Document {
	o := p.options
	doc := &Document{
		Columns: p.columns,
		Totals:  report.ComputeTotals(rows),
		Period:  period,
		Layout:  o,
	}

	newPage := func(kind PageKind) *Page {
		page := &Page{
			Number:       len(doc.Pages) + 1,
			Kind:         kind,
			TableHeaderY: o.TableHeaderY(),
			FooterY:      o.FooterY(),
		}
		doc.Pages = append(doc.Pages, page)
		return page
	}

	page := newPage(DataPage)
	onPage := 0
	for i, row := range rows {
		if !o.rowFits(o.rowY(onPage)) {
			page = newPage(DataPage)
			onPage = 0
		}
		page.Rows = append(page.Rows, RowBox{
			Index:  i,
			Y:      o.rowY(onPage),
			Cells:  p.rowCells(row, i),
			Shaded: i%2 == 1,
		})
		onPage++
	}

	if !o.totalsFit(o.rowY(onPage)) {
		page = newPage(DataPage)
		onPage = 0
	}
	page.Totals = &RowBox{
		Index: -1,
		Y:     o.rowY(onPage),
		Cells: p.totalsCells(doc.Totals),
	}

	newPage(SummaryPage)

	logging.Logger().Debug("report paginated",
		"rows", len(rows),
		"rows_per_page", o.RowsPerPage(),
		"pages", len(doc.Pages))
	return doc
}

func (p *Paginator) rowCells(row report.Row, index int) []string {
	cells := make([]string, len(p.columns))
	for c, col := range p.columns {
		cells[c] = p.cell(index, col, func() string {
			return p.shaper.Fit(formatValue(row.Field(col.Key), col), col.Width)
		})
	}
	return cells
}

func (p *Paginator) totalsCells(t report.Totals) []string {
	cells := make([]string, len(p.columns))
	for c, col := range p.columns {
		switch col.Aggregate {
		case report.AggregateSum:
			cells[c] = p.cell(-1, col, func() string {
				return p.shaper.Cap(text.FormatNumber(t.Sum(col.Key), col.Decimals))
			})
		case report.AggregateCount:
			cells[c] = p.cell(-1, col, func() string {
				return p.shaper.Cap(text.FormatNumber(decimal.NewFromInt(int64(t.Count)), 0))
			})
		}
	}
	return cells
}

// cell formats one cell, degrading to an empty string on panic. Totals
// are only capped: the renderer shrinks them instead of cutting digits.
func (p *Paginator) cell(index int, col report.Column, format func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Warn("cell formatting failed",
				"row", index,
				"column", col.Key,
				"error", fmt.Sprint(r))
			s = ""
		}
	}()
	return format()
}

func formatValue(v report.Value, col report.Column) string {
	switch col.Format {
	case report.FormatNumber:
		d, _ := v.Number()
		return text.FormatNumber(d, col.Decimals)
	default:
		return v.String()
	}
}

// FitText caps and truncates free text for a box of the given width, using
// the paginator's heuristic.
func (p *Paginator) FitText(s string, width float64) string {
	return p.shaper.Fit(s, width)
}
