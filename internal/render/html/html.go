// Package html renders the report page plan as an HTML preview, one
// section per page.
package html

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/render"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/variant"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const stylesheet = `
body { font-family: Helvetica, Arial, sans-serif; background: #e5e5e5; margin: 0; }
.page { background: #fff; margin: 16px auto; padding: 0; box-sizing: border-box; position: relative; }
.report-header { display: flex; border: 1px solid #000; align-items: stretch; }
.report-header .logo { border-right: 1px solid #000; }
.report-header h1 { flex: 1; margin: auto; text-align: center; }
.report-header .info { border-left: 1px solid #000; width: 180pt; margin: 0; font-size: 9pt; }
.report-header .info div { padding: 4pt 8pt; border-bottom: 1px solid #000; }
.report-header .info div:last-child { border-bottom: 0; }
table { border-collapse: collapse; margin: 10pt auto 0; table-layout: fixed; }
th { border: 1px solid #000; font-weight: bold; white-space: pre-line; }
td { border-right: 1px solid #ccc; border-bottom: 1px solid #ccc; white-space: nowrap; overflow: hidden; padding: 0 2pt; }
td.right { text-align: right; }
td.center { text-align: center; }
tfoot td { font-weight: bold; border-top: 1px solid #000; }
.summary { border: 1px solid #000; margin-top: 10pt; padding: 10pt 30pt; }
.summary .strong { font-weight: bold; }
.summary .note { color: #4d4d4d; font-size: 9pt; }
footer { position: absolute; left: 0; right: 0; text-align: center; font-size: 8pt; color: #808080; }
`

// Options contains options for the preview
type Options struct {
	Title         string
	ShowPageTotal bool
	IssuedAt      time.Time
}

// Renderer writes HTML previews for one variant.
type Renderer struct {
	variant *variant.Variant
	options Options
}

// NewRenderer creates a new HTML renderer
func NewRenderer(v *variant.Variant, options Options) *Renderer {
	return &Renderer{variant: v, options: options}
}

// Render writes doc as a standalone HTML document.
func (r *Renderer) Render(ctx context.Context, doc *pagination.Document, w io.Writer) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element(atom.Html, "lang", "fr")
	root.AppendChild(page)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := r.options.Title
	if title == "" {
		title = r.variant.Title
	}
	appendText(head, atom.Title, title)
	appendText(head, atom.Style, stylesheet)
	page.AppendChild(head)

	body := element(atom.Body)
	page.AppendChild(body)
	for _, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rendering cancelled: %w", err)
		}
		body.AppendChild(r.page(doc, p))
	}

	if err := html.Render(w, root); err != nil {
		return render.Wrap("output", err)
	}
	return nil
}

func (r *Renderer) page(doc *pagination.Document, p *pagination.Page) *html.Node {
	o := doc.Layout
	section := element(atom.Section,
		"class", "page page-"+p.Kind.String(),
		"data-page", strconv.Itoa(p.Number),
		"style", fmt.Sprintf("width:%spt;height:%spt;padding:%spt", pt(o.PageWidth), pt(o.PageHeight), pt(o.Margin)))

	section.AppendChild(r.header(doc, p))
	if p.Kind == pagination.SummaryPage {
		section.AppendChild(summary(doc))
	} else {
		section.AppendChild(table(doc, p))
	}
	appendText(section, atom.Footer, fmt.Sprintf("Page %d", p.Number),
		"style", fmt.Sprintf("top:%spt", pt(p.FooterY)))
	return section
}

func (r *Renderer) header(doc *pagination.Document, p *pagination.Page) *html.Node {
	h := doc.Layout.HeaderBoxHeight
	header := element(atom.Header, "class", "report-header", "style", "height:"+pt(h)+"pt")
	header.AppendChild(element(atom.Div, "class", "logo", "style", fmt.Sprintf("width:%spt", pt(h))))
	appendText(header, atom.H1, r.variant.Title,
		"style", fmt.Sprintf("font-size:%spt;color:%s", pt(r.variant.Style.TitleSize), r.variant.Style.Accent))

	info := element(atom.Div, "class", "info")
	appendText(info, atom.Div, "Réf: "+r.variant.Reference)
	issued := r.options.IssuedAt
	appendText(info, atom.Div, "Édité le: "+issued.Format("02/01/2006")+"  "+issued.Format("15:04"))
	label := fmt.Sprintf("Page %d", p.Number)
	if r.options.ShowPageTotal {
		label = fmt.Sprintf("Page %d/%d", p.Number, len(doc.Pages))
	}
	appendText(info, atom.Div, label, "class", "page-number")
	header.AppendChild(info)
	return header
}

func table(doc *pagination.Document, p *pagination.Page) *html.Node {
	t := element(atom.Table, "style", fmt.Sprintf("width:%spt", pt(report.TableWidth(doc.Columns))))

	colgroup := element(atom.Colgroup)
	for _, c := range doc.Columns {
		colgroup.AppendChild(element(atom.Col, "style", fmt.Sprintf("width:%spt", pt(c.Width))))
	}
	t.AppendChild(colgroup)

	thead := element(atom.Thead)
	tr := element(atom.Tr, "style", fmt.Sprintf("height:%spt", pt(doc.Layout.TableHeaderHeight)))
	for _, c := range doc.Columns {
		th := element(atom.Th)
		for i, line := range c.HeaderLines() {
			if i > 0 {
				th.AppendChild(element(atom.Br))
			}
			th.AppendChild(textNode(line))
		}
		tr.AppendChild(th)
	}
	thead.AppendChild(tr)
	t.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range p.Rows {
		tbody.AppendChild(tableRow(doc, row, doc.Layout.RowHeight))
	}
	t.AppendChild(tbody)

	if p.Totals != nil {
		tfoot := element(atom.Tfoot)
		tfoot.AppendChild(tableRow(doc, *p.Totals, doc.Layout.TotalsHeight))
		t.AppendChild(tfoot)
	}
	return t
}

func tableRow(doc *pagination.Document, row pagination.RowBox, height float64) *html.Node {
	attrs := []string{"style", fmt.Sprintf("height:%spt", pt(height))}
	if row.Shaded {
		attrs = append(attrs, "class", "shaded")
	}
	if row.Index >= 0 {
		attrs = append(attrs, "data-row", strconv.Itoa(row.Index))
	}
	tr := element(atom.Tr, attrs...)
	for i, c := range doc.Columns {
		cell := ""
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}
		appendText(tr, atom.Td, cell, "class", string(c.Align))
	}
	return tr
}

func summary(doc *pagination.Document) *html.Node {
	div := element(atom.Div, "class", "summary")
	appendText(div, atom.H2, render.SummaryTitle)
	for _, l := range render.SummaryLines(doc) {
		class := "plain"
		switch l.Kind {
		case render.LineStrong:
			class = "strong"
		case render.LineNote:
			class = "note"
		}
		appendText(div, atom.P, l.Text, "class", class)
	}
	return div
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendText(parent *html.Node, a atom.Atom, s string, attrs ...string) *html.Node {
	n := element(a, attrs...)
	if s != "" {
		n.AppendChild(textNode(s))
	}
	parent.AppendChild(n)
	return n
}

func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
