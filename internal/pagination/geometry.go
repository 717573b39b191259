package pagination

import (
	"errors"
	"fmt"
)

// Orientation of the page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// eps absorbs float rounding in fit comparisons.
const eps = 1e-6

// Options holds the layout constants of a report. All distances are in
// points, measured from the top edge of the page.
type Options struct {
	PageWidth  float64 `yaml:"page_width,omitempty"`
	PageHeight float64 `yaml:"page_height,omitempty"`
	Margin     float64 `yaml:"margin,omitempty"`

	HeaderBoxHeight   float64 `yaml:"header_box_height,omitempty"`
	HeaderGap         float64 `yaml:"header_gap,omitempty"`
	TableHeaderHeight float64 `yaml:"table_header_height,omitempty"`
	RowHeight         float64 `yaml:"row_height,omitempty"`
	TotalsHeight      float64 `yaml:"totals_height,omitempty"`

	// FooterReserve is kept free below the last data row.
	FooterReserve float64 `yaml:"footer_reserve,omitempty"`
	// FooterHeight is the band the page footer occupies above the margin.
	// The totals row may extend into the reserve down to this band.
	FooterHeight float64 `yaml:"footer_height,omitempty"`

	AvgCharWidth   float64 `yaml:"avg_char_width,omitempty"`
	MaxTextLength  int     `yaml:"max_text_length,omitempty"`
	TruncateMarker string  `yaml:"truncate_marker,omitempty"`
}

// DefaultOptions returns the A4 layout for the given orientation.
func DefaultOptions(o Orientation) Options {
	if o == Portrait {
		return Options{
			PageWidth:         PageSizeA4.Width,
			PageHeight:        PageSizeA4.Height,
			Margin:            40,
			HeaderBoxHeight:   70,
			HeaderGap:         10,
			TableHeaderHeight: 25,
			RowHeight:         20,
			TotalsHeight:      20,
			FooterReserve:     30,
			FooterHeight:      12,
			AvgCharWidth:      6,
			MaxTextLength:     100,
			TruncateMarker:    "..",
		}
	}
	return Options{
		PageWidth:         PageSizeA4.Height,
		PageHeight:        PageSizeA4.Width,
		Margin:            20,
		HeaderBoxHeight:   80,
		HeaderGap:         10,
		TableHeaderHeight: 28,
		RowHeight:         14,
		TotalsHeight:      14,
		FooterReserve:     30,
		FooterHeight:      12,
		AvgCharWidth:      4.5,
		MaxTextLength:     150,
	}
}

// Merge fills every zero field of o from defaults.
func (o Options) Merge(defaults Options) Options {
	fill := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&o.PageWidth, defaults.PageWidth)
	fill(&o.PageHeight, defaults.PageHeight)
	fill(&o.Margin, defaults.Margin)
	fill(&o.HeaderBoxHeight, defaults.HeaderBoxHeight)
	fill(&o.HeaderGap, defaults.HeaderGap)
	fill(&o.TableHeaderHeight, defaults.TableHeaderHeight)
	fill(&o.RowHeight, defaults.RowHeight)
	fill(&o.TotalsHeight, defaults.TotalsHeight)
	fill(&o.FooterReserve, defaults.FooterReserve)
	fill(&o.FooterHeight, defaults.FooterHeight)
	fill(&o.AvgCharWidth, defaults.AvgCharWidth)
	if o.MaxTextLength == 0 {
		o.MaxTextLength = defaults.MaxTextLength
	}
	if o.TruncateMarker == "" {
		o.TruncateMarker = defaults.TruncateMarker
	}
	return o
}

// Validate checks that the layout can place at least one row and the
// totals row on a page.
func (o Options) Validate() error {
	if o.PageWidth <= 0 || o.PageHeight <= 0 {
		return fmt.Errorf("invalid page size %.2fx%.2f", o.PageWidth, o.PageHeight)
	}
	if o.RowHeight <= 0 {
		return errors.New("row height must be positive")
	}
	if o.TotalsHeight <= 0 {
		return errors.New("totals height must be positive")
	}
	if o.Margin < 0 || o.HeaderBoxHeight < 0 || o.HeaderGap < 0 || o.TableHeaderHeight < 0 ||
		o.FooterReserve < 0 || o.FooterHeight < 0 {
		return errors.New("layout distances must not be negative")
	}
	if o.AvgCharWidth <= 0 {
		return errors.New("average character width must be positive")
	}
	if o.FooterHeight > o.FooterReserve {
		return fmt.Errorf("footer height %.2f exceeds footer reserve %.2f", o.FooterHeight, o.FooterReserve)
	}
	if o.RowsPerPage() < 1 {
		return errors.New("layout leaves no room for a table row")
	}
	if !o.totalsFit(o.TableTop()) {
		return errors.New("layout leaves no room for the totals row")
	}
	return nil
}

// ContentWidth is the horizontal space between the margins.
func (o Options) ContentWidth() float64 {
	return o.PageWidth - 2*o.Margin
}

// TableHeaderY is the top of the table header band.
func (o Options) TableHeaderY() float64 {
	return o.Margin + o.HeaderBoxHeight + o.HeaderGap
}

// TableTop is the top of the first data row on a page.
func (o Options) TableTop() float64 {
	return o.TableHeaderY() + o.TableHeaderHeight
}

// FooterY is the top of the footer band.
func (o Options) FooterY() float64 {
	return o.PageHeight - o.Margin - o.FooterHeight
}

func (o Options) rowY(n int) float64 {
	return o.TableTop() + float64(n)*o.RowHeight
}

func (o Options) rowFits(y float64) bool {
	return y+o.RowHeight <= o.PageHeight-o.Margin-o.FooterReserve+eps
}

func (o Options) totalsFit(y float64) bool {
	return y+o.TotalsHeight <= o.PageHeight-o.Margin-o.FooterHeight+eps
}

// RowsPerPage is the number of data rows a page holds.
func (o Options) RowsPerPage() int {
	if o.RowHeight <= 0 {
		return 0
	}
	n := 0
	for o.rowFits(o.rowY(n)) {
		n++
	}
	return n
}

// DataPages is the number of table pages needed for n rows, including the
// extra page when the totals row does not fit after the last row.
func (o Options) DataPages(n int) int {
	per := o.RowsPerPage()
	if per < 1 {
		return 0
	}
	if n < 0 {
		n = 0
	}
	pages := (n + per - 1) / per
	if pages < 1 {
		pages = 1
	}
	last := n - (pages-1)*per
	if !o.totalsFit(o.rowY(last)) {
		pages++
	}
	return pages
}

// PageCount is the number of pages of a report with n rows: the data pages
// plus the summary page.
func (o Options) PageCount(n int) int {
	return o.DataPages(n) + 1
}
