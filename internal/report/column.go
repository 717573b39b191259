package report

import (
	"fmt"
	"strings"
)

// Align is the horizontal alignment of a cell.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Format selects how a field value becomes cell text.
type Format string

const (
	// FormatText prints the value as-is.
	FormatText Format = "text"
	// FormatNumber coerces to a number, rounds and groups thousands.
	FormatNumber Format = "number"
	// FormatDate passes pre-formatted date strings through.
	FormatDate Format = "date"
)

// Aggregate marks columns that carry a value in the totals row.
type Aggregate string

const (
	AggregateNone  Aggregate = ""
	AggregateSum   Aggregate = "sum"
	AggregateCount Aggregate = "count"
)

// Column describes one table column.
type Column struct {
	// Header may contain one embedded newline for two-line headers.
	Header    string    `yaml:"header" json:"header"`
	Width     float64   `yaml:"width" json:"width"`
	Key       string    `yaml:"key" json:"key"`
	Align     Align     `yaml:"align,omitempty" json:"align,omitempty"`
	Format    Format    `yaml:"format,omitempty" json:"format,omitempty"`
	Decimals  int32     `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	Aggregate Aggregate `yaml:"aggregate,omitempty" json:"aggregate,omitempty"`
}

// HeaderLines splits the header on its embedded line break.
func (c Column) HeaderLines() []string {
	return strings.SplitN(c.Header, "\n", 2)
}

// Normalize fills defaults for empty alignment and format.
func (c Column) Normalize() Column {
	if c.Align == "" {
		c.Align = AlignLeft
	}
	if c.Format == "" {
		c.Format = FormatText
	}
	return c
}

// Validate checks a normalized column.
func (c Column) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("column %q: width must be positive, got %.2f", c.Key, c.Width)
	}
	if !KnownKey(c.Key) {
		return fmt.Errorf("column %q: unknown field key", c.Key)
	}
	switch c.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("column %q: unknown alignment %q", c.Key, c.Align)
	}
	switch c.Format {
	case FormatText, FormatNumber, FormatDate:
	default:
		return fmt.Errorf("column %q: unknown format %q", c.Key, c.Format)
	}
	switch c.Aggregate {
	case AggregateNone, AggregateCount:
	case AggregateSum:
		if !Aggregable(c.Key) {
			return fmt.Errorf("column %q: field cannot be summed", c.Key)
		}
	default:
		return fmt.Errorf("column %q: unknown aggregate %q", c.Key, c.Aggregate)
	}
	if c.Decimals < 0 || c.Decimals > 6 {
		return fmt.Errorf("column %q: decimals out of range: %d", c.Key, c.Decimals)
	}
	return nil
}

// TableWidth is the sum of the column widths.
func TableWidth(columns []Column) float64 {
	var w float64
	for _, c := range columns {
		w += c.Width
	}
	return w
}

// Period is the date range echoed in the report. The bounds are display
// strings formatted by the caller; empty means absent.
type Period struct {
	Start string `json:"dateStart"`
	End   string `json:"dateEnd"`
}

// StartLabel returns the start bound or N/A.
func (p Period) StartLabel() string {
	return orNA(p.Start)
}

// EndLabel returns the end bound or N/A.
func (p Period) EndLabel() string {
	return orNA(p.End)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
