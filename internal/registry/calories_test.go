package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseCalories(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Calories
	}{
		{"plain", "1200", CaloriesOf(1200)},
		{"zero", "0", CaloriesOf(0)},
		{"leading whitespace", "  \t42", CaloriesOf(42)},
		{"trailing garbage", "12.7kcal", CaloriesOf(12)},
		{"negative", "-5", CaloriesOf(-5)},
		{"explicit plus", "+7", CaloriesOf(7)},
		{"hex", "0x1F", CaloriesOf(31)},
		{"hex upper prefix", "0XfF", CaloriesOf(255)},
		{"empty", "", NaN()},
		{"letters", "abc", NaN()},
		{"sign only", "-", NaN()},
		{"bare hex prefix", "0x", NaN()},
		{"inner space stops", "1 000", CaloriesOf(1)},
		{"overflow", "99999999999999999999999", NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseCalories(tt.raw))
		})
	}
}

func TestCalories_ZeroValueIsZero(t *testing.T) {
	var c Calories
	n, ok := c.Int()
	require.True(t, ok)
	require.Equal(t, 0, n)
	require.False(t, c.IsNaN())
}

func TestCalories_AddPropagatesNaN(t *testing.T) {
	require.True(t, CaloriesOf(3).Add(NaN()).IsNaN())
	require.True(t, NaN().Add(CaloriesOf(3)).IsNaN())
	require.Equal(t, CaloriesOf(5), CaloriesOf(2).Add(CaloriesOf(3)))
}

func TestCalories_String(t *testing.T) {
	require.Equal(t, "NaN", NaN().String())
	require.Equal(t, "-12", CaloriesOf(-12).String())
}

func TestCalories_JSON(t *testing.T) {
	data, err := json.Marshal([]Calories{CaloriesOf(400), NaN()})
	require.NoError(t, err)
	require.JSONEq(t, `[400, null]`, string(data))

	var got []Calories
	require.NoError(t, json.Unmarshal([]byte(`[400, null, 12.9, -3.5]`), &got))
	require.Equal(t, []Calories{CaloriesOf(400), NaN(), CaloriesOf(12), CaloriesOf(-3)}, got)

	var bad Calories
	require.Error(t, json.Unmarshal([]byte(`{"n":1}`), &bad))
}

func TestParseCalories_DecimalRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "n")
		c := ParseCalories(CaloriesOf(n).String())
		got, ok := c.Int()
		if !ok || got != n {
			t.Fatalf("ParseCalories(%d) = %v", n, c)
		}
	})
}
