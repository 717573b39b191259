// Package variant describes the report layouts: column sets, orientation,
// geometry and style.
package variant

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/report"
	"gopkg.in/yaml.v3"
)

// ErrUnknownVariant is returned by Lookup for a name that is not defined.
var ErrUnknownVariant = errors.New("unknown report variant")

//go:embed variants.yaml
var builtinYAML []byte

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Style holds fonts and colors of a variant. Colors are hex strings.
type Style struct {
	BodyFont    string  `yaml:"body_font"`
	BodySize    float64 `yaml:"body_size"`
	HeaderSize  float64 `yaml:"header_size"`
	TitleSize   float64 `yaml:"title_size"`
	Accent      string  `yaml:"accent"`
	HeaderFill  string  `yaml:"header_fill"`
	HeaderText  string  `yaml:"header_text"`
	Shade       string  `yaml:"shade"`
	SummaryFill string  `yaml:"summary_fill"`
}

var defaultStyle = Style{
	BodyFont:    "Helvetica",
	BodySize:    8,
	HeaderSize:  8,
	TitleSize:   16,
	Accent:      "#000000",
	HeaderFill:  "#F2F2F2",
	HeaderText:  "#000000",
	Shade:       "#FAFAFA",
	SummaryFill: "#F7F7FF",
}

// Variant is one report layout.
type Variant struct {
	Name        string                 `yaml:"name"`
	Title       string                 `yaml:"title"`
	Reference   string                 `yaml:"reference"`
	Orientation pagination.Orientation `yaml:"orientation"`
	Style       Style                  `yaml:"style"`
	Layout      pagination.Options     `yaml:"layout"`
	Columns     []report.Column        `yaml:"columns"`
}

// prepare fills defaults and validates the variant.
func (v *Variant) prepare() error {
	if v.Name == "" {
		return errors.New("variant without name")
	}
	switch v.Orientation {
	case "":
		v.Orientation = pagination.Landscape
	case pagination.Landscape, pagination.Portrait:
	default:
		return fmt.Errorf("variant %q: unknown orientation %q", v.Name, v.Orientation)
	}
	if v.Title == "" {
		v.Title = v.Name
	}
	if v.Reference == "" {
		v.Reference = v.Title
	}
	v.Style = v.Style.merge(defaultStyle)
	for _, c := range []string{v.Style.Accent, v.Style.HeaderFill, v.Style.HeaderText, v.Style.Shade, v.Style.SummaryFill} {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("variant %q: invalid color %q", v.Name, c)
		}
	}
	if v.Style.BodySize <= 0 || v.Style.HeaderSize <= 0 || v.Style.TitleSize <= 0 {
		return fmt.Errorf("variant %q: font sizes must be positive", v.Name)
	}

	v.Layout = v.Layout.Merge(pagination.DefaultOptions(v.Orientation))
	if err := v.Layout.Validate(); err != nil {
		return fmt.Errorf("variant %q: %w", v.Name, err)
	}

	if len(v.Columns) == 0 {
		return fmt.Errorf("variant %q: no columns", v.Name)
	}
	for i, c := range v.Columns {
		c = c.Normalize()
		if err := c.Validate(); err != nil {
			return fmt.Errorf("variant %q: %w", v.Name, err)
		}
		v.Columns[i] = c
	}
	if w, avail := report.TableWidth(v.Columns), v.Layout.ContentWidth(); w > avail+1e-6 {
		return fmt.Errorf("variant %q: table width %.2f exceeds available width %.2f", v.Name, w, avail)
	}
	return nil
}

func (s Style) merge(d Style) Style {
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	num := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	str(&s.BodyFont, d.BodyFont)
	num(&s.BodySize, d.BodySize)
	num(&s.HeaderSize, d.HeaderSize)
	num(&s.TitleSize, d.TitleSize)
	str(&s.Accent, d.Accent)
	str(&s.HeaderFill, d.HeaderFill)
	str(&s.HeaderText, d.HeaderText)
	str(&s.Shade, d.Shade)
	str(&s.SummaryFill, d.SummaryFill)
	return s
}

// WithOrientation returns a copy with the page sides swapped for another
// orientation. The other layout values are kept, so the columns must still
// fit the new width.
func (v Variant) WithOrientation(o pagination.Orientation) (*Variant, error) {
	if o == "" || o == v.Orientation {
		return &v, nil
	}
	size := pagination.PageSize{Width: v.Layout.PageWidth, Height: v.Layout.PageHeight}.Oriented(o)
	v.Orientation = o
	v.Layout.PageWidth = size.Width
	v.Layout.PageHeight = size.Height
	v.Columns = append([]report.Column(nil), v.Columns...)
	if err := v.prepare(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Set is a collection of variants with a default.
type Set struct {
	Default  string     `yaml:"default"`
	Variants []*Variant `yaml:"variants"`
}

// Parse decodes and validates a YAML variant set.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse variants: %w", err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads a YAML variant set from disk.
func ParseFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read variants file: %w", err)
	}
	return Parse(data)
}

func (s *Set) prepare() error {
	if len(s.Variants) == 0 {
		return errors.New("no variants defined")
	}
	seen := make(map[string]bool, len(s.Variants))
	for _, v := range s.Variants {
		if v == nil {
			return errors.New("empty variant entry")
		}
		if err := v.prepare(); err != nil {
			return err
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variant %q", v.Name)
		}
		seen[v.Name] = true
	}
	if s.Default == "" {
		s.Default = s.Variants[0].Name
	}
	if !seen[s.Default] {
		return fmt.Errorf("default variant %q: %w", s.Default, ErrUnknownVariant)
	}
	return nil
}

// Lookup returns the named variant, or the default for an empty name.
func (s *Set) Lookup(name string) (*Variant, error) {
	if name == "" {
		name = s.Default
	}
	for _, v := range s.Variants {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Names lists the variant names in definition order.
func (s *Set) Names() []string {
	names := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		names[i] = v.Name
	}
	return names
}

// Merge returns a set holding the variants of s overridden and extended by
// those of other. The default of other wins.
func (s *Set) Merge(other *Set) *Set {
	out := &Set{Default: s.Default}
	index := make(map[string]int)
	for _, v := range s.Variants {
		index[v.Name] = len(out.Variants)
		out.Variants = append(out.Variants, v)
	}
	if other == nil {
		return out
	}
	for _, v := range other.Variants {
		if i, ok := index[v.Name]; ok {
			out.Variants[i] = v
			continue
		}
		index[v.Name] = len(out.Variants)
		out.Variants = append(out.Variants, v)
	}
	if other.Default != "" {
		out.Default = other.Default
	}
	return out
}

var (
	builtinOnce sync.Once
	builtin     *Set
)

// Builtin returns the variants shipped with the binary.
func Builtin() *Set {
	builtinOnce.Do(func() {
		s, err := Parse(builtinYAML)
		if err != nil {
			panic(fmt.Sprintf("variant: invalid builtin variants: %v", err))
		}
		builtin = s
	})
	return builtin
}
