package report

import (
	"github.com/shopspring/decimal"
)

// aggregableKeys are the fields summed for the totals row and the summary.
var aggregableKeys = []string{
	KeyFruitCount,
	KeyPackageCount,
	KeyGrossWeight,
	KeyChosenWeight,
}

// Aggregable reports whether a field is summed in the totals.
func Aggregable(key string) bool {
	for _, k := range aggregableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Totals holds the sums over an entire row set.
type Totals struct {
	// Count is the number of rows, one palette per row.
	Count int
	sums  map[string]decimal.Decimal
}

// ComputeTotals reduces all rows. Malformed values count as zero.
func ComputeTotals(rows []Row) Totals {
	t := Totals{
		Count: len(rows),
		sums:  make(map[string]decimal.Decimal, len(aggregableKeys)),
	}
	for _, key := range aggregableKeys {
		t.sums[key] = decimal.Zero
	}
	for _, row := range rows {
		for _, key := range aggregableKeys {
			t.sums[key] = t.sums[key].Add(row.Field(key).Decimal())
		}
	}
	return t
}

// Sum returns the total of an aggregable field, zero otherwise.
func (t Totals) Sum(key string) decimal.Decimal {
	if d, ok := t.sums[key]; ok {
		return d
	}
	return decimal.Zero
}

func (t Totals) FruitCount() decimal.Decimal   { return t.Sum(KeyFruitCount) }
func (t Totals) PackageCount() decimal.Decimal { return t.Sum(KeyPackageCount) }
func (t Totals) GrossWeight() decimal.Decimal  { return t.Sum(KeyGrossWeight) }
func (t Totals) ChosenWeight() decimal.Decimal { return t.Sum(KeyChosenWeight) }
