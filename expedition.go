package expedition

import (
	"github.com/marquage/expedition/pkg/api"
)

type Generator = api.Generator
type Document = api.Document
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type Row = api.Row
type Value = api.Value
type Period = api.Period
type Totals = api.Totals

func New() *Generator                                    { return api.New() }
func NewWithOptions(options Options) (*Generator, error) { return api.NewWithOptions(options) }
func DefaultOptions() Options                            { return api.DefaultOptions() }
func Filename(period Period) string                      { return api.Filename(period) }

var V = api.V

var (
	WithVariant         = api.WithVariant
	WithVariantsFile    = api.WithVariantsFile
	WithPageOrientation = api.WithPageOrientation
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithLogo            = api.WithLogo
	WithFont            = api.WithFont
	WithResourcePath    = api.WithResourcePath
	WithClock           = api.WithClock
	WithPageTotal       = api.WithPageTotal
	WithCompression     = api.WithCompression
	WithDebug           = api.WithDebug
	WithDebugBoxes      = api.WithDebugBoxes
)

const (
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
