package render

import (
	"fmt"

	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/text"
)

// SummaryTitle heads the recap page.
const SummaryTitle = "RÉCAPITULATIF"

// LineKind is the emphasis of a summary line.
type LineKind int

const (
	LinePlain LineKind = iota
	LineStrong
	LineNote
)

// SummaryLine is one line of the recap box, Offset points below its top.
type SummaryLine struct {
	Text   string
	Kind   LineKind
	Offset float64
}

// SummaryLines returns the recap of doc: palette count, chosen weight,
// package count and period.
func SummaryLines(doc *pagination.Document) []SummaryLine {
	t := doc.Totals
	weight := text.FormatNumber(t.ChosenWeight(), weightDecimals(doc.Columns))
	return []SummaryLine{
		{Text: fmt.Sprintf("Nombre total de palettes: %s", text.GroupThousands(fmt.Sprint(t.Count))), Kind: LineStrong, Offset: 45},
		{Text: fmt.Sprintf("Poids total: %s Kg", weight), Kind: LineStrong, Offset: 65},
		{Text: fmt.Sprintf("Nombre total de colis: %s", text.FormatNumber(t.PackageCount(), 0)), Offset: 85},
		{Text: fmt.Sprintf("Période: %s au %s", doc.Period.StartLabel(), doc.Period.EndLabel()), Kind: LineNote, Offset: 105},
	}
}

// weightDecimals is the precision of the chosen weight column, 0 when the
// variant does not show it.
func weightDecimals(cols []report.Column) int32 {
	for _, c := range cols {
		if c.Key == report.KeyChosenWeight {
			return c.Decimals
		}
	}
	return 0
}
