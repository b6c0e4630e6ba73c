package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Calories is an integer calorie count or NaN.
// Raw form input that carries no leading number parses to NaN, and NaN
// poisons any sum it takes part in. The zero value is 0, not NaN.
type Calories struct {
	n   int
	nan bool
}

// CaloriesOf wraps an integer.
func CaloriesOf(n int) Calories { return Calories{n: n} }

// NaN returns the not-a-number calorie value.
func NaN() Calories { return Calories{nan: true} }

// ParseCalories coerces raw input the way a browser's parseInt does:
// leading whitespace and an optional sign are accepted, a 0x prefix selects
// hex, and parsing stops at the first non-digit. No digits yields NaN, as
// does a value that overflows int.
func ParseCalories(raw string) Calories {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return NaN()
	}

	v, err := strconv.ParseInt(s[:end], base, strconv.IntSize)
	if err != nil {
		return NaN()
	}
	if neg {
		v = -v
	}
	return Calories{n: int(v)}
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// Int returns the integer value and false when c is NaN.
func (c Calories) Int() (int, bool) {
	if c.nan {
		return 0, false
	}
	return c.n, true
}

// IsNaN reports whether c is NaN.
func (c Calories) IsNaN() bool { return c.nan }

// Add returns c+o. NaN on either side yields NaN, as does int overflow.
func (c Calories) Add(o Calories) Calories {
	if c.nan || o.nan {
		return NaN()
	}
	if (o.n > 0 && c.n > math.MaxInt-o.n) || (o.n < 0 && c.n < math.MinInt-o.n) {
		return NaN()
	}
	return Calories{n: c.n + o.n}
}

// String renders the decimal value or "NaN".
func (c Calories) String() string {
	if c.nan {
		return "NaN"
	}
	return strconv.Itoa(c.n)
}

// MarshalJSON encodes NaN as null, the same way JSON.stringify does.
func (c Calories) MarshalJSON() ([]byte, error) {
	if c.nan {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.n)), nil
}

// UnmarshalJSON accepts null (NaN), integers, and numbers with a fraction,
// which are truncated toward zero.
func (c *Calories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = NaN()
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("calories: %w", err)
	}
	if v, err := num.Int64(); err == nil {
		if v > math.MaxInt || v < math.MinInt {
			*c = NaN()
			return nil
		}
		*c = CaloriesOf(int(v))
		return nil
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("calories: %w", err)
	}
	if math.IsNaN(f) || f > math.MaxInt || f < math.MinInt {
		*c = NaN()
		return nil
	}
	*c = CaloriesOf(int(f))
	return nil
}
