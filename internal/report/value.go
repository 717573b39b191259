package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Value is one scalar field of a row, kept as it arrived from the data
// source. Numeric columns may hold strings, numbers or nothing at all.
type Value struct {
	v any
}

// V wraps a Go value.
func V(v any) Value {
	return Value{v: v}
}

// Null is the absent value.
var Null = Value{}

// Raw returns the wrapped value.
func (v Value) Raw() any {
	return v.v
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.v == nil
}

// String returns the display form of the value.
func (v Value) String() string {
	switch x := v.v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "Oui"
		}
		return "Non"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("02/01/2006")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Number coerces the value to a decimal. Malformed, non-finite and absent
// values yield zero and false.
func (v Value) Number() (decimal.Decimal, bool) {
	switch x := v.v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return x, true
	case json.Number:
		return parseNumber(x.String())
	case string:
		return parseNumber(x)
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case uint:
		return parseNumber(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return parseNumber(strconv.FormatUint(x, 10))
	case uint32:
		return decimal.NewFromInt(int64(x)), true
	default:
		return decimal.Zero, false
	}
}

// Decimal is Number without the validity flag.
func (v Value) Decimal() decimal.Decimal {
	d, _ := v.Number()
	return d
}

// MarshalJSON writes the wrapped value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.v)
}

// UnmarshalJSON keeps numbers exact by decoding them as json.Number.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, string, bool, json.Number:
		v.v = raw
	default:
		// objects and arrays are not scalars; keep their text
		v.v = string(data)
	}
	return nil
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// parseNumber accepts "12345.6", " 12 345,6 ", "1,234.56", "1.234,56" and
// the like.
func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, false
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot > comma:
		// "1,234.56": commas group thousands
		s = strings.ReplaceAll(s, ",", "")
	case dot >= 0 && comma > dot:
		// "1.234,56": dots group thousands
		s = strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	case comma >= 0 && strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
