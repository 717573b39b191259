package pdf

import (
	"strconv"
	"strings"
)

type rgb [3]int

var (
	black     = rgb{0, 0, 0}
	gridGray  = rgb{204, 204, 204}
	mutedGray = rgb{128, 128, 128}
	noteGray  = rgb{77, 77, 77}
	debugRed  = rgb{200, 0, 0}
)

// parseColor parses #RRGGBB or #RGB, falling back to black.
func parseColor(s string) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return black
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}
