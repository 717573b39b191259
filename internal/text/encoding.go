package text

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ToWinAnsi converts UTF-8 text to the CP1252 bytes expected by the PDF
// core fonts. Runes outside the code page become '?'.
func ToWinAnsi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}
