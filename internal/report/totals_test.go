package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func row(fruits, packages, gross, chosen any) Row {
	var r Row
	r.Set(KeyFruitCount, fruits)
	r.Set(KeyPackageCount, packages)
	r.Set(KeyGrossWeight, gross)
	r.Set(KeyChosenWeight, chosen)
	return r
}

func TestComputeTotals(t *testing.T) {
	rows := []Row{
		row(80, "120", "1020.5", 1000),
		row("88", 60, 510.25, "abc"),
		row(nil, "", "NaN", "12,75"),
	}

	totals := ComputeTotals(rows)

	assert.Equal(t, 3, totals.Count)
	assert.True(t, totals.FruitCount().Equal(decimal.NewFromInt(168)))
	assert.True(t, totals.PackageCount().Equal(decimal.NewFromInt(180)))
	assert.True(t, totals.GrossWeight().Equal(decimal.RequireFromString("1530.75")))
	assert.True(t, totals.ChosenWeight().Equal(decimal.RequireFromString("1012.75")), "malformed weight counts as zero")
	assert.True(t, totals.Sum(KeyBrand).IsZero())
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Equal(t, 0, totals.Count)
	assert.True(t, totals.ChosenWeight().IsZero())

	var zero Totals
	assert.True(t, zero.GrossWeight().IsZero())
}

func TestAggregable(t *testing.T) {
	assert.True(t, Aggregable(KeyChosenWeight))
	assert.False(t, Aggregable(KeyPalette))
}
