// Package api is the public interface of the expedition report generator.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/render/html"
	"github.com/marquage/expedition/internal/render/pdf"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/res"
	"github.com/marquage/expedition/internal/variant"
)

type (
	Row    = report.Row
	Value  = report.Value
	Period = report.Period
	Totals = report.Totals
)

// V wraps a Go value as a row field.
var V = report.V

// Document is a generated report.
type Document struct {
	// Data holds the PDF bytes.
	Data   []byte
	Pages  int
	Totals Totals
}

// Generator produces expedition reports. It is immutable and safe for
// concurrent use; every call builds its own document.
type Generator struct {
	options   Options
	variant   *variant.Variant
	paginator *pagination.Paginator
	loader    *res.Loader
}

// New creates a generator for the default variant.
func New() *Generator {
	g, err := NewWithOptions(DefaultOptions())
	if err != nil {
		panic(fmt.Sprintf("api: default generator: %v", err))
	}
	return g
}

// NewWithOptions creates a generator with the specified options
func NewWithOptions(options Options) (*Generator, error) {
	if options.Now == nil {
		options.Now = time.Now
	}

	set := variant.Builtin()
	if options.VariantsFile != "" {
		extra, err := variant.ParseFile(options.VariantsFile)
		if err != nil {
			return nil, err
		}
		set = set.Merge(extra)
	}
	v, err := set.Lookup(options.Variant)
	if err != nil {
		return nil, err
	}
	if v, err = v.WithOrientation(options.PageOrientation); err != nil {
		return nil, err
	}

	loader := res.NewLoader("")
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}

	return &Generator{
		options:   options,
		variant:   v,
		paginator: pagination.NewPaginator(v.Layout, v.Columns),
		loader:    loader,
	}, nil
}

// WithOption returns a new generator with the specified option set
func (g *Generator) WithOption(opts ...Option) (*Generator, error) {
	options := g.options
	options.ResourcePaths = append([]string(nil), g.options.ResourcePaths...)
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// Options returns the generator options.
func (g *Generator) Options() Options {
	return g.options
}

// Variant returns the resolved report variant.
func (g *Generator) Variant() *variant.Variant {
	return g.variant
}

// PageCount is the number of pages a report of n rows has.
func (g *Generator) PageCount(n int) int {
	return g.variant.Layout.PageCount(n)
}

// Plan paginates rows without rendering them.
func (g *Generator) Plan(rows []Row, period Period) *pagination.Document {
	doc := g.paginator.Paginate(rows, period)
	if g.options.Debug {
		for _, p := range doc.Pages {
			logging.Logger().Info("page planned",
				"page", p.Number,
				"kind", p.Kind.String(),
				"rows", len(p.Rows),
				"totals", p.Totals != nil)
		}
	}
	return doc
}

// Generate renders rows as a PDF report. Failures to build the document or
// its resources are returned as *render.RenderError.
func (g *Generator) Generate(ctx context.Context, rows []Row, period Period) (*Document, error) {
	var buf bytes.Buffer
	plan, err := g.generate(ctx, &buf, rows, period)
	if err != nil {
		return nil, err
	}
	return &Document{
		Data:   buf.Bytes(),
		Pages:  plan.PageCount(),
		Totals: plan.Totals,
	}, nil
}

// GenerateTo renders rows as a PDF report to w.
func (g *Generator) GenerateTo(ctx context.Context, w io.Writer, rows []Row, period Period) error {
	_, err := g.generate(ctx, w, rows, period)
	return err
}

// GenerateFile renders rows as a PDF report to path, creating the parent
// directory as needed.
func (g *Generator) GenerateFile(ctx context.Context, path string, rows []Row, period Period) error {
	doc, err := g.Generate(ctx, rows, period)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// GenerateHTML renders rows as an HTML preview to w.
func (g *Generator) GenerateHTML(ctx context.Context, w io.Writer, rows []Row, period Period) error {
	plan := g.Plan(rows, period)
	r := html.NewRenderer(g.variant, html.Options{
		Title:         g.options.Title,
		ShowPageTotal: g.options.ShowPageTotal,
		IssuedAt:      g.options.Now(),
	})
	if err := r.Render(ctx, plan, w); err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	return nil
}

func (g *Generator) generate(ctx context.Context, w io.Writer, rows []Row, period Period) (*pagination.Document, error) {
	plan := g.Plan(rows, period)
	title := g.options.Title
	if title == "" {
		title = g.variant.Title
	}
	r := pdf.NewRenderer(g.variant, g.loader, pdf.Options{
		Title:          title,
		Author:         g.options.Author,
		Subject:        g.options.Subject,
		Keywords:       g.options.Keywords,
		ShowPageTotal:  g.options.ShowPageTotal,
		Compress:       g.options.Compress,
		LogoPath:       g.options.LogoPath,
		FontPath:       g.options.FontPath,
		IssuedAt:       g.options.Now(),
		DebugDrawBoxes: g.options.DebugDrawBoxes,
	})
	if err := r.Render(ctx, plan, w); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	logging.Logger().Debug("report generated",
		"variant", g.variant.Name,
		"rows", len(rows),
		"pages", plan.PageCount())
	return plan, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename suggests the download name of a report covering period.
func Filename(period Period) string {
	part := func(s string) string {
		s = unsafeFilename.ReplaceAllString(s, "-")
		if s == "" || s == "-" {
			return "NA"
		}
		return s
	}
	return fmt.Sprintf("rapport_palettes_%s_%s.pdf", part(period.Start), part(period.End))
}
