package text

import (
	"unicode/utf8"
)

// Shaper fits cell text into fixed-width columns. It uses an average
// character width instead of glyph metrics, so the result depends only on
// the column width and the configured constants.
type Shaper struct {
	// AvgCharWidth is the assumed advance of one character, in points.
	AvgCharWidth float64
	// MaxLength caps any string before width-based truncation, in runes.
	// Zero disables the cap.
	MaxLength int
	// Marker is appended to truncated text, e.g. "..". It counts against
	// the column's character budget.
	Marker string
}

// NewShaper creates a new shaper
func NewShaper(avgCharWidth float64, maxLength int, marker string) *Shaper {
	return &Shaper{
		AvgCharWidth: avgCharWidth,
		MaxLength:    maxLength,
		Marker:       marker,
	}
}

// MaxChars is the number of characters a column of the given width holds.
func (s *Shaper) MaxChars(width float64) int {
	if s.AvgCharWidth <= 0 || width <= 0 {
		return 0
	}
	n := int(width/s.AvgCharWidth + 1e-9)
	if n < 0 {
		return 0
	}
	return n
}

// Cap hard-limits a string to MaxLength runes.
func (s *Shaper) Cap(text string) string {
	if s.MaxLength <= 0 {
		return text
	}
	return cut(text, s.MaxLength)
}

// Fit caps text and truncates it to the column width. Overflow is cut,
// never wrapped.
func (s *Shaper) Fit(text string, width float64) string {
	return Truncate(s.Cap(text), s.MaxChars(width), s.Marker)
}

// Truncate shortens text to at most max runes. When a marker is given and
// leaves room for at least one character, the kept prefix is followed by
// the marker.
func Truncate(text string, max int, marker string) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	m := utf8.RuneCountInString(marker)
	if marker != "" && max > m {
		return cut(text, max-m) + marker
	}
	return cut(text, max)
}

// cut returns the first n runes of text.
func cut(text string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
