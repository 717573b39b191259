package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/render"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	embeddedFamily = "report"
	logoName       = "logo"
	// svgMaxPixels bounds the longest side of a rasterized SVG logo.
	svgMaxPixels = 512
)

// fontSet names the families used for body and heading text.
type fontSet struct {
	body string
	head string
	// utf8 is set when an embedded TrueType font replaces the core fonts.
	utf8 bool
}

var coreFamilies = map[string]string{
	"courier":   "Courier",
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
}

func coreFonts(body string) fontSet {
	family, ok := coreFamilies[strings.ToLower(strings.TrimSpace(body))]
	if !ok {
		logging.Logger().Warn("unknown core font, using Helvetica", "font", body)
		family = "Helvetica"
	}
	return fontSet{body: family, head: "Helvetica"}
}

type logoImage struct {
	width, height float64
}

func (rn *run) loadAssets(ctx context.Context) error {
	if path := rn.options.FontPath; path != "" {
		if err := rn.loadFont(ctx, path); err != nil {
			return err
		}
	}
	if path := rn.options.LogoPath; path != "" {
		if err := rn.loadLogo(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

func (rn *run) loadFont(ctx context.Context, path string) (err error) {
	font, err := rn.loader.LoadFont(ctx, path)
	if err != nil {
		return render.Wrap("load font", err)
	}
	defer func() {
		if p := recover(); p != nil {
			err = render.Errorf("register font", "%s: %v", path, p)
		}
	}()
	rn.pdf.AddUTF8FontFromBytes(embeddedFamily, "", font.Data)
	rn.pdf.AddUTF8FontFromBytes(embeddedFamily, "B", font.Data)
	if rn.pdf.Err() {
		return render.Wrap("register font", rn.pdf.Error())
	}
	rn.fonts = fontSet{body: embeddedFamily, head: embeddedFamily, utf8: true}
	return nil
}

func (rn *run) loadLogo(ctx context.Context, path string) error {
	src, err := rn.loader.LoadImage(ctx, path)
	if err != nil {
		return render.Wrap("load logo", err)
	}

	var img image.Image
	if src.IsSVG() {
		img, err = rasterizeSVG(src.Data)
	} else {
		img, _, err = image.Decode(src.Reader())
	}
	if err != nil {
		return render.Wrap("decode logo", fmt.Errorf("%s: %w", path, err))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return render.Wrap("encode logo", err)
	}
	rn.pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if rn.pdf.Err() {
		return render.Wrap("register logo", rn.pdf.Error())
	}

	b := img.Bounds()
	rn.logo = &logoImage{width: float64(b.Dx()), height: float64(b.Dy())}
	return nil
}

// rasterizeSVG renders an SVG document to an RGBA image at its view box
// size, scaled down to svgMaxPixels.
func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = svgMaxPixels, svgMaxPixels
	}
	if scale := svgMaxPixels / max(w, h); scale < 1 {
		w, h = w*scale, h*scale
	}
	iw, ih := max(int(w), 1), max(int(h), 1)

	icon.SetTarget(0, 0, float64(iw), float64(ih))
	rgba := image.NewRGBA(image.Rect(0, 0, iw, ih))
	scanner := rasterx.NewScannerGV(iw, ih, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(iw, ih, scanner), 1)
	return rgba, nil
}
