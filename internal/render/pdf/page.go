package pdf

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/render"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/text"
)

const (
	cellPadding   = 2.0
	infoBoxWidth  = 180.0
	summaryHeight = 120.0
	footerSize    = 8.0
	infoSize      = 9.0
	minCellSize   = 4.0
)

// run is the state of a single Build call.
type run struct {
	*Renderer
	pdf   *fpdf.Fpdf
	doc   *pagination.Document
	total int
	fonts fontSet
	logo  *logoImage
}

func (rn *run) drawPage(page *pagination.Page) {
	rn.pdf.AddPage()
	rn.drawHeaderBox(page)
	switch page.Kind {
	case pagination.SummaryPage:
		rn.drawSummary(page)
	default:
		rn.drawTableHeader(page)
		for _, row := range page.Rows {
			rn.drawRow(row, false)
		}
		if page.Totals != nil {
			rn.drawRow(*page.Totals, true)
		}
	}
	rn.drawFooter(page)
	if rn.options.DebugDrawBoxes {
		rn.drawDebugBoxes(page)
	}
}

func (rn *run) layout() pagination.Options {
	return rn.doc.Layout
}

func (rn *run) setColor(set func(r, g, b int), c rgb) {
	set(c[0], c[1], c[2])
}

func (rn *run) font(family, style string, size float64) {
	rn.pdf.SetFont(family, style, size)
}

// encode converts text for the active font encoding.
func (rn *run) encode(s string) string {
	if rn.fonts.utf8 {
		return s
	}
	return text.ToWinAnsi(s)
}

// drawText draws one string with its baseline at y. A failure is logged and
// the string skipped.
func (rn *run) drawText(x, y float64, s string) {
	defer func() {
		if p := recover(); p != nil {
			logging.Logger().Warn("text drawing failed", "text", s, "error", fmt.Sprint(p))
		}
	}()
	if limit := rn.layout().MaxTextLength; limit > 0 {
		s = text.Truncate(s, limit, "")
	}
	if s == "" {
		return
	}
	rn.pdf.Text(x, y, rn.encode(s))
}

func (rn *run) stringWidth(s string) float64 {
	return rn.pdf.GetStringWidth(rn.encode(s))
}

// alignedX positions s inside [x, x+width] with padding.
func (rn *run) alignedX(s string, x, width float64, align report.Align) float64 {
	switch align {
	case report.AlignRight:
		return x + width - cellPadding - rn.stringWidth(s)
	case report.AlignCenter:
		return x + (width-rn.stringWidth(s))/2
	default:
		return x + cellPadding
	}
}

func (rn *run) tableX() float64 {
	return (rn.layout().PageWidth - report.TableWidth(rn.doc.Columns)) / 2
}

func (rn *run) pageLabel(page *pagination.Page) string {
	if rn.options.ShowPageTotal {
		return fmt.Sprintf("Page %d/%d", page.Number, rn.total)
	}
	return fmt.Sprintf("Page %d", page.Number)
}

func (rn *run) drawHeaderBox(page *pagination.Page) {
	o := rn.layout()
	style := rn.variant.Style
	x, y := o.Margin, o.Margin
	w, h := o.ContentWidth(), o.HeaderBoxHeight

	rn.setColor(rn.pdf.SetDrawColor, black)
	rn.pdf.SetLineWidth(1)
	rn.pdf.Rect(x, y, w, h, "D")

	// logo slot
	slot := h
	rn.pdf.Line(x+slot, y, x+slot, y+h)
	if rn.logo != nil {
		rn.drawLogo(x, y, slot)
	}

	// info block
	infoX := x + w - infoBoxWidth
	rn.pdf.SetLineWidth(0.5)
	rn.pdf.Line(infoX, y, infoX, y+h)
	rn.pdf.Line(infoX, y+h/3, x+w, y+h/3)
	rn.pdf.Line(infoX, y+2*h/3, x+w, y+2*h/3)

	line := func(i int) float64 { return y + float64(i)*h/3 + h/6 + infoSize*0.35 }
	label := func(i int, name, value string) {
		rn.font(rn.fonts.head, "B", infoSize)
		rn.setColor(rn.pdf.SetTextColor, black)
		rn.drawText(infoX+8, line(i), name)
		lw := rn.stringWidth(name) + 6
		rn.font(rn.fonts.body, "", 8)
		room := infoBoxWidth - 16 - lw
		rn.drawText(infoX+8+lw, line(i), rn.fit(value, room))
	}
	issued := rn.options.IssuedAt
	label(0, "Réf:", rn.variant.Reference)
	label(1, "Édité le:", issued.Format("02/01/2006")+"  "+issued.Format("15:04"))
	rn.font(rn.fonts.head, "B", infoSize)
	rn.drawText(infoX+8, line(2), rn.pageLabel(page))

	// title, shrunk until it fits between the logo slot and the info block
	titleW := infoX - (x + slot) - 2*cellPadding
	size := style.TitleSize
	rn.font(rn.fonts.head, "B", size)
	for size > 8 && rn.stringWidth(rn.variant.Title) > titleW {
		size--
		rn.font(rn.fonts.head, "B", size)
	}
	title := rn.fit(rn.variant.Title, titleW)
	rn.setColor(rn.pdf.SetTextColor, parseColor(style.Accent))
	tx := x + slot + (infoX-(x+slot)-rn.stringWidth(title))/2
	rn.drawText(tx, y+h/2+size*0.35, title)
	rn.setColor(rn.pdf.SetTextColor, black)
}

// fit truncates s with the width heuristic, then drops runes until the
// measured width fits.
func (rn *run) fit(s string, width float64) string {
	s = text.NewShaper(rn.layout().AvgCharWidth, rn.layout().MaxTextLength, "").Fit(s, width)
	for s != "" && rn.stringWidth(s) > width {
		r := []rune(s)
		s = string(r[:len(r)-1])
	}
	return s
}

func (rn *run) drawLogo(x, y, slot float64) {
	pad := 4.0
	box := slot - 2*pad
	w, h := box, box
	if rn.logo.width > rn.logo.height {
		h = box * rn.logo.height / rn.logo.width
	} else if rn.logo.height > 0 {
		w = box * rn.logo.width / rn.logo.height
	}
	rn.pdf.ImageOptions(logoName, x+pad+(box-w)/2, y+pad+(box-h)/2, w, h, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func (rn *run) drawTableHeader(page *pagination.Page) {
	o := rn.layout()
	style := rn.variant.Style
	x, y := rn.tableX(), page.TableHeaderY
	w, h := report.TableWidth(rn.doc.Columns), o.TableHeaderHeight

	rn.setColor(rn.pdf.SetFillColor, parseColor(style.HeaderFill))
	rn.setColor(rn.pdf.SetDrawColor, black)
	rn.pdf.SetLineWidth(0.75)
	rn.pdf.Rect(x, y, w, h, "FD")

	rn.font(rn.fonts.head, "B", style.HeaderSize)
	rn.setColor(rn.pdf.SetTextColor, parseColor(style.HeaderText))
	rn.pdf.SetLineWidth(0.5)
	rn.setColor(rn.pdf.SetDrawColor, mutedGray)
	cx := x
	for i, col := range rn.doc.Columns {
		lines := col.HeaderLines()
		base := y + h/2 + style.HeaderSize*0.35
		if len(lines) > 1 {
			base = y + h/2 - 1
		}
		for j, l := range lines {
			l = rn.fit(l, col.Width-cellPadding)
			rn.drawText(cx+(col.Width-rn.stringWidth(l))/2, base+float64(j)*(style.HeaderSize+1), l)
		}
		cx += col.Width
		if i < len(rn.doc.Columns)-1 {
			rn.pdf.Line(cx, y, cx, y+h)
		}
	}
	rn.setColor(rn.pdf.SetTextColor, black)
}

func (rn *run) drawRow(row pagination.RowBox, totals bool) {
	o := rn.layout()
	style := rn.variant.Style
	x := rn.tableX()
	w := report.TableWidth(rn.doc.Columns)
	h := o.RowHeight
	if totals {
		h = o.TotalsHeight
	}

	switch {
	case totals:
		rn.setColor(rn.pdf.SetFillColor, parseColor(style.HeaderFill))
		rn.setColor(rn.pdf.SetDrawColor, black)
		rn.pdf.SetLineWidth(0.75)
		rn.pdf.Rect(x, row.Y, w, h, "FD")
		rn.font(rn.fonts.body, "B", style.BodySize)
	case row.Shaded:
		rn.setColor(rn.pdf.SetFillColor, parseColor(style.Shade))
		rn.pdf.Rect(x, row.Y, w, h, "F")
		rn.font(rn.fonts.body, "", style.BodySize)
	default:
		rn.font(rn.fonts.body, "", style.BodySize)
	}

	rn.setColor(rn.pdf.SetDrawColor, gridGray)
	rn.pdf.SetLineWidth(0.25)
	rn.setColor(rn.pdf.SetTextColor, black)
	base := row.Y + h/2 + style.BodySize*0.35
	cx := x
	for i, col := range rn.doc.Columns {
		if i < len(row.Cells) && row.Cells[i] != "" {
			cell, _ := rn.fitCell(row.Cells[i], col, totals)
			rn.drawText(rn.alignedX(cell, cx, col.Width, col.Align), base, cell)
			rn.pdf.SetFontSize(style.BodySize)
		}
		cx += col.Width
		if i < len(rn.doc.Columns)-1 {
			rn.pdf.Line(cx, row.Y, cx, row.Y+h)
		}
	}
	rn.pdf.Line(x, row.Y+h, x+w, row.Y+h)
}

// fitCell returns the text and font size a cell is drawn with so that it
// stays between its column lines. Row text is cut by measured width,
// keeping the truncation marker. Totals keep every digit and are drawn
// smaller instead. The current font is left at the returned size.
func (rn *run) fitCell(s string, col report.Column, totals bool) (string, float64) {
	size := rn.variant.Style.BodySize
	room := col.Width - 2*cellPadding
	if !totals {
		return rn.cutToWidth(s, room), size
	}
	for size > minCellSize && rn.stringWidth(s) > room {
		size -= 0.5
		rn.pdf.SetFontSize(size)
	}
	return s, size
}

func (rn *run) cutToWidth(s string, width float64) string {
	if rn.stringWidth(s) <= width {
		return s
	}
	marker := rn.layout().TruncateMarker
	body := []rune(strings.TrimSuffix(s, marker))
	for len(body) > 0 {
		body = body[:len(body)-1]
		if t := string(body) + marker; rn.stringWidth(t) <= width {
			return t
		}
	}
	return ""
}

func (rn *run) drawFooter(page *pagination.Page) {
	o := rn.layout()
	label := fmt.Sprintf("Page %d", page.Number)
	rn.font(rn.fonts.body, "", footerSize)
	rn.setColor(rn.pdf.SetTextColor, mutedGray)
	rn.drawText((o.PageWidth-rn.stringWidth(label))/2, page.FooterY+o.FooterHeight*0.75, label)
	rn.setColor(rn.pdf.SetTextColor, black)
}

func (rn *run) drawSummary(page *pagination.Page) {
	o := rn.layout()
	style := rn.variant.Style
	x, y := o.Margin, page.TableHeaderY
	w := o.ContentWidth()

	rn.setColor(rn.pdf.SetFillColor, parseColor(style.SummaryFill))
	rn.setColor(rn.pdf.SetDrawColor, black)
	rn.pdf.SetLineWidth(1)
	rn.pdf.Rect(x, y, w, summaryHeight, "FD")

	tx := x + 30
	rn.setColor(rn.pdf.SetTextColor, parseColor(style.Accent))
	rn.font(rn.fonts.head, "B", 14)
	rn.drawText(tx, y+20, render.SummaryTitle)

	rn.setColor(rn.pdf.SetTextColor, black)
	for _, l := range render.SummaryLines(rn.doc) {
		switch l.Kind {
		case render.LineStrong:
			rn.font(rn.fonts.head, "B", 10)
		case render.LineNote:
			rn.font(rn.fonts.head, "", 9)
			rn.setColor(rn.pdf.SetTextColor, noteGray)
		default:
			rn.font(rn.fonts.head, "", 10)
		}
		rn.drawText(tx, y+l.Offset, rn.fit(l.Text, w-60))
	}
	rn.setColor(rn.pdf.SetTextColor, black)
}

func (rn *run) drawDebugBoxes(page *pagination.Page) {
	o := rn.layout()
	rn.setColor(rn.pdf.SetDrawColor, debugRed)
	rn.pdf.SetLineWidth(0.3)
	rn.pdf.Rect(o.Margin, o.Margin, o.ContentWidth(), o.PageHeight-2*o.Margin, "D")
	limit := o.PageHeight - o.Margin - o.FooterReserve
	rn.pdf.Line(o.Margin, limit, o.PageWidth-o.Margin, limit)
	rn.pdf.Line(o.Margin, page.FooterY, o.PageWidth-o.Margin, page.FooterY)
	rn.setColor(rn.pdf.SetDrawColor, black)
}
