package booking

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a presence-aware nullable number used for monetary fields and
// counts. Producers send these as numbers, numeric strings, empty strings or
// null depending on their age; anything that does not parse to a finite
// number coerces to null. It never defaults to zero, so a missing amount can
// not be mistaken for a free booking in reports.
type Amount struct {
	present bool
	value   *float64
}

func AmountOf(v float64) Amount {
	return Amount{present: true, value: &v}
}

func NullAmount() Amount {
	return Amount{present: true}
}

// Present reports whether the field appeared in the source document at all,
// which is what reconciliation precedence keys on.
func (a Amount) Present() bool {
	return a.present
}

// Value returns the coerced number, or nil for null. A nil *float64 binds as
// SQL NULL through pgx.
func (a Amount) Value() *float64 {
	return a.value
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	a.present = true
	a.value = coerceNumber(data)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*a.value)
}

func coerceNumber(data []byte) *float64 {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch n := v.(type) {
	case float64:
		return finiteOrNil(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finiteOrNil(f)
	default:
		return nil
	}
}

func finiteOrNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
