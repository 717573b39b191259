package api

import (
	"time"

	"github.com/marquage/expedition/internal/pagination"
)

// Options represents configuration options for the report generator
type Options struct {
	// Variant names the report layout; empty selects the default variant.
	Variant string
	// VariantsFile is a YAML file of variants added to the built-in ones.
	VariantsFile string
	// PageOrientation overrides the orientation of the variant.
	PageOrientation PageOrientation

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string

	// ShowPageTotal prints "Page N/M" in the header box.
	ShowPageTotal bool
	// Compress deflates the page content streams.
	Compress bool

	// Resources, resolved against ResourcePaths
	LogoPath      string
	FontPath      string
	ResourcePaths []string

	// Now supplies the edition timestamp.
	Now func() time.Time

	Debug          bool
	DebugDrawBoxes bool
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation = pagination.Orientation

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = pagination.Portrait
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = pagination.Landscape
)

// Standard page sizes in points (1/72 inch)
const (
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		ShowPageTotal: true,
		Compress:      true,
		ResourcePaths: []string{},
		Now:           time.Now,
	}
}

// WithVariant selects the report variant
func WithVariant(name string) Option {
	return func(o *Options) {
		o.Variant = name
	}
}

// WithVariantsFile loads additional variants from a YAML file
func WithVariantsFile(path string) Option {
	return func(o *Options) {
		o.VariantsFile = path
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithLogo sets the image drawn in the header box
func WithLogo(path string) Option {
	return func(o *Options) {
		o.LogoPath = path
	}
}

// WithFont embeds a TrueType font instead of the core fonts
func WithFont(path string) Option {
	return func(o *Options) {
		o.FontPath = path
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithClock sets the source of the edition timestamp
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}

// WithPageTotal toggles the "Page N/M" header label
func WithPageTotal(show bool) Option {
	return func(o *Options) {
		o.ShowPageTotal = show
	}
}

// WithCompression toggles content stream compression
func WithCompression(compress bool) Option {
	return func(o *Options) {
		o.Compress = compress
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithDebugBoxes outlines the layout regions on every page
func WithDebugBoxes(draw bool) Option {
	return func(o *Options) {
		o.DebugDrawBoxes = draw
	}
}
