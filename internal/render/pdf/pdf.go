// Package pdf renders a paginated report plan with fpdf.
package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/render"
	"github.com/marquage/expedition/internal/res"
	"github.com/marquage/expedition/internal/variant"
)

// Options contains options for rendering
type Options struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	// ShowPageTotal prints "Page N/M" in the header box instead of "Page N".
	ShowPageTotal bool
	Compress      bool
	// LogoPath and FontPath are resolved through the resource loader.
	LogoPath string
	FontPath string
	// IssuedAt is printed as the edition date and stored as creation date.
	IssuedAt time.Time
	// DebugDrawBoxes outlines the layout regions.
	DebugDrawBoxes bool
}

// Renderer draws report documents for one variant. It holds no per-run
// state and may be shared between goroutines.
type Renderer struct {
	variant *variant.Variant
	loader  *res.Loader
	options Options
}

// NewRenderer creates a new PDF renderer
func NewRenderer(v *variant.Variant, loader *res.Loader, options Options) *Renderer {
	if loader == nil {
		loader = res.NewLoader("")
	}
	return &Renderer{variant: v, loader: loader, options: options}
}

// Render writes the document as PDF to w.
func (r *Renderer) Render(ctx context.Context, doc *pagination.Document, w io.Writer) error {
	pdf, err := r.Build(ctx, doc)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return render.Wrap("output", err)
	}
	return nil
}

// Build draws every page of doc and returns the unserialized document.
func (r *Renderer) Build(ctx context.Context, doc *pagination.Document) (*fpdf.Fpdf, error) {
	pdf, err := r.newDocument()
	if err != nil {
		return nil, err
	}

	rn := &run{
		Renderer: r,
		pdf:      pdf,
		doc:      doc,
		total:    len(doc.Pages),
		fonts:    coreFonts(r.variant.Style.BodyFont),
	}
	if err := rn.loadAssets(ctx); err != nil {
		return nil, err
	}

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rendering cancelled: %w", err)
		}
		rn.drawPage(page)
		if pdf.Err() {
			return nil, render.Wrap(fmt.Sprintf("page %d", page.Number), pdf.Error())
		}
	}

	logging.Logger().Debug("pdf rendered",
		"variant", r.variant.Name,
		"pages", pdf.PageCount())
	return pdf, nil
}

func (r *Renderer) newDocument() (pdf *fpdf.Fpdf, err error) {
	defer func() {
		if p := recover(); p != nil {
			pdf, err = nil, render.Errorf("init", "%v", p)
		}
	}()

	layout := r.variant.Layout
	size := pagination.PageSize{Width: layout.PageWidth, Height: layout.PageHeight}.Oriented(pagination.Portrait)
	orient := "P"
	if r.variant.Orientation == pagination.Landscape {
		orient = "L"
	}
	pdf = fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})

	o := r.options
	creator := o.Creator
	if creator == "" {
		creator = "expedition"
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(o.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(o.Title, true)
	pdf.SetAuthor(o.Author, true)
	pdf.SetSubject(o.Subject, true)
	pdf.SetKeywords(o.Keywords, true)
	pdf.SetCreator(creator, true)
	if o.Producer != "" {
		pdf.SetProducer(o.Producer, true)
	}
	if !o.IssuedAt.IsZero() {
		pdf.SetCreationDate(o.IssuedAt)
		pdf.SetModificationDate(o.IssuedAt)
	}
	if pdf.Err() {
		return nil, render.Wrap("init", pdf.Error())
	}
	return pdf, nil
}
