package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   string
		wantOK bool
	}{
		{"nil", nil, "0", false},
		{"int", 42, "42", true},
		{"int64", int64(-7), "-7", true},
		{"uint64", uint64(18), "18", true},
		{"float", 12.5, "12.5", true},
		{"nan", math.NaN(), "0", false},
		{"inf", math.Inf(1), "0", false},
		{"string", "1234.56", "1234.56", true},
		{"grouped string", " 12 345 ", "12345", true},
		{"nbsp grouped", "12\u00a0345,5", "12345.5", true},
		{"comma decimal", "3,75", "3.75", true},
		{"comma thousands", "1,234.56", "1234.56", true},
		{"dot thousands", "1.234,56", "1234.56", true},
		{"repeated commas", "1,234,567", "1234567", true},
		{"repeated dots", "1.234.567", "0", false},
		{"garbage", "abc", "0", false},
		{"empty", "", "0", false},
		{"json number", json.Number("981.250"), "981.25", true},
		{"bool", true, "0", false},
		{"decimal", decimal.RequireFromString("8.1"), "8.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := V(tt.in).Number()
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", Null.String())
	assert.Equal(t, "PAL-01", V("PAL-01").String())
	assert.Equal(t, "12", V(12).String())
	assert.Equal(t, "0.5", V(0.5).String())
	assert.Equal(t, "Oui", V(true).String())
	assert.Equal(t, "Non", V(false).String())
	assert.Equal(t, "03/02/2025", V(time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "", V(time.Time{}).String())
	assert.Equal(t, "17", V(json.Number("17")).String())
}

func TestValueJSON(t *testing.T) {
	var vals []Value
	require.NoError(t, json.Unmarshal([]byte(`[12345678901234567890.12, "x", null, true, {"a":1}]`), &vals))
	require.Len(t, vals, 5)

	assert.Equal(t, "12345678901234567890.12", vals[0].String())
	assert.Equal(t, "x", vals[1].String())
	assert.True(t, vals[2].IsNull())
	assert.Equal(t, "Oui", vals[3].String())
	assert.Equal(t, `{"a":1}`, vals[4].String())

	out, err := json.Marshal(vals[:3])
	require.NoError(t, err)
	assert.JSONEq(t, `[12345678901234567890.12, "x", null]`, string(out))
}
