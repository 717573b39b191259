package render

import (
	"testing"

	"github.com/marquage/expedition/internal/pagination"
	"github.com/marquage/expedition/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryLines(t *testing.T) {
	rows := make([]report.Row, 1200)
	for i := range rows {
		rows[i].Set(report.KeyChosenWeight, "10.125")
		rows[i].Set(report.KeyPackageCount, 3)
	}
	cols := []report.Column{{Header: "Poids", Width: 50, Key: report.KeyChosenWeight, Decimals: 2}}
	doc := &pagination.Document{
		Columns: cols,
		Totals:  report.ComputeTotals(rows),
		Period:  report.Period{Start: "01/03/2025"},
	}

	lines := SummaryLines(doc)
	require.Len(t, lines, 4)
	assert.Equal(t, "Nombre total de palettes: 1 200", lines[0].Text)
	assert.Equal(t, "Poids total: 12 150.00 Kg", lines[1].Text)
	assert.Equal(t, "Nombre total de colis: 3 600", lines[2].Text)
	assert.Equal(t, "Période: 01/03/2025 au N/A", lines[3].Text)
	assert.Equal(t, LineNote, lines[3].Kind)

	doc.Columns = nil
	assert.Equal(t, "Poids total: 12 150 Kg", SummaryLines(doc)[1].Text)
}
