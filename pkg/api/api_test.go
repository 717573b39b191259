package api

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marquage/expedition/internal/render"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
}

func rows(n int) []Row {
	out := make([]Row, n)
	for i := range out {
		out[i].Set(report.KeyPalette, i+1)
		out[i].Set(report.KeyPackageCount, "12")
		out[i].Set(report.KeyGrossWeight, 500.25)
		out[i].Set(report.KeyChosenWeight, 480)
		out[i].Set(report.KeyFruitCount, nil)
	}
	return out
}

func generator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	options := DefaultOptions()
	options.Now = fixedClock
	for _, o := range opts {
		o(&options)
	}
	g, err := NewWithOptions(options)
	require.NoError(t, err)
	return g
}

func TestGeneratePageCount(t *testing.T) {
	g := generator(t)
	assert.Equal(t, "expedition", g.Variant().Name)

	for _, n := range []int{0, 1, 29, 30, 120} {
		doc, err := g.Generate(context.Background(), rows(n), Period{Start: "2025-03-01", End: "2025-03-14"})
		require.NoError(t, err)
		assert.Equal(t, g.PageCount(n), doc.Pages)
		assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
		assert.Equal(t, n, doc.Totals.Count)
	}
}

func TestGenerateTotals(t *testing.T) {
	in := rows(3)
	in[1].Set(report.KeyGrossWeight, "abc")
	doc, err := generator(t).Generate(context.Background(), in, Period{})
	require.NoError(t, err)
	assert.Equal(t, "1000.5", doc.Totals.GrossWeight().String())
	assert.Equal(t, "36", doc.Totals.PackageCount().String())
	assert.Equal(t, "0", doc.Totals.FruitCount().String())
}

func TestGenerateDeterministic(t *testing.T) {
	g := generator(t, WithCompression(false))
	in := rows(75)
	a, err := g.Generate(context.Background(), in, Period{Start: "a", End: "b"})
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), in, Period{Start: "a", End: "b"})
	require.NoError(t, err)

	assert.Equal(t, a.Pages, b.Pages)
	assert.Equal(t, a.Totals, b.Totals)
}

func TestGenerateConcurrent(t *testing.T) {
	g := generator(t)
	var wg sync.WaitGroup
	pages := make([]int, 8)
	errs := make([]error, 8)
	for i := range pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := g.Generate(context.Background(), rows(10*i), Period{})
			errs[i] = err
			if err == nil {
				pages[i] = doc.Pages
			}
		}(i)
	}
	wg.Wait()
	for i := range pages {
		require.NoError(t, errs[i])
		assert.Equal(t, g.PageCount(10*i), pages[i])
	}
}

func TestVariantSelection(t *testing.T) {
	g := generator(t, WithVariant("palettes"))
	assert.Equal(t, PageOrientationPortrait, g.Variant().Orientation)

	g2, err := g.WithOption(WithPageOrientation(PageOrientationLandscape))
	require.NoError(t, err)
	assert.Equal(t, PageOrientationLandscape, g2.Variant().Orientation)
	assert.Equal(t, PageOrientationPortrait, g.Variant().Orientation)

	_, err = NewWithOptions(Options{Variant: "unknown"})
	assert.ErrorIs(t, err, variant.ErrUnknownVariant)

	_, err = NewWithOptions(Options{PageOrientation: PageOrientationPortrait})
	assert.Error(t, err, "the expedition table does not fit a portrait page")
}

func TestVariantsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
variants:
  - name: compact
    orientation: portrait
    columns:
      - {header: "Palette", width: 100, key: numpal, aggregate: count}
      - {header: "Poids", width: 100, key: pdsChoosen, format: number, aggregate: sum}
`), 0o644))

	g := generator(t, WithVariantsFile(path), WithVariant("compact"))
	assert.Equal(t, "compact", g.Variant().Name)
	doc, err := g.Generate(context.Background(), rows(5), Period{})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
}

func TestGenerateRenderError(t *testing.T) {
	g := generator(t, WithLogo("does-not-exist.png"))
	_, err := g.Generate(context.Background(), rows(1), Period{})
	var re *render.RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "load logo", re.Op)
}

func TestGenerateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	require.NoError(t, generator(t).GenerateFile(context.Background(), path, rows(4), Period{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGenerateHTML(t *testing.T) {
	var buf bytes.Buffer
	g := generator(t, WithVariant("palettes"))
	require.NoError(t, g.GenerateHTML(context.Background(), &buf, rows(2), Period{Start: "01/03/2025"}))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `<section class="page `))
	assert.Contains(t, out, "Période: 01/03/2025 au N/A")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "rapport_palettes_2025-03-01_2025-03-14.pdf", Filename(Period{Start: "2025-03-01", End: "2025-03-14"}))
	assert.Equal(t, "rapport_palettes_01-03-2025_NA.pdf", Filename(Period{Start: "01/03/2025"}))
	assert.Equal(t, "rapport_palettes_NA_NA.pdf", Filename(Period{Start: "  "}))
	assert.Equal(t, "rapport_palettes_..-etc-passwd_x.pdf", Filename(Period{Start: "../etc/passwd", End: "x"}))
}
