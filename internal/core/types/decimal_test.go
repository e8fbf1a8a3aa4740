package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientDecimal_Unmarshal(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantPresent bool
		wantInvalid bool
	}{
		{name: "number", input: `12.5`, want: "12.5", wantPresent: true},
		{name: "numeric string", input: `"48"`, want: "48", wantPresent: true},
		{name: "arabic-indic digits", input: `"١٢٫٥"`, want: "12.5", wantPresent: true},
		{name: "thousands separator", input: `"1,250.75"`, want: "1250.75", wantPresent: true},
		{name: "null", input: `null`, want: "0"},
		{name: "empty string", input: `""`, want: "0", wantPresent: true, wantInvalid: true},
		{name: "garbage", input: `"abc"`, want: "0", wantPresent: true, wantInvalid: true},
		{name: "bool", input: `true`, want: "0", wantPresent: true, wantInvalid: true},
		{name: "huge exponent", input: `"1e900000000"`, want: "0", wantPresent: true, wantInvalid: true},
		{name: "tiny exponent", input: `"1e-900000000"`, want: "0", wantPresent: true, wantInvalid: true},
		{name: "huge exponent number", input: `1E900000000`, want: "0", wantPresent: true, wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l LenientDecimal
			require.NoError(t, json.Unmarshal([]byte(tt.input), &l))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(l.Value), "got %s", l.Value)
			assert.Equal(t, tt.wantPresent, l.Present)
			assert.Equal(t, tt.wantInvalid, l.Invalid)
		})
	}
}

func TestParseLenient_Bounds(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"1e28", true},
		{"1e-28", true},
		{"1e29", false},
		{"1e-29", false},
		{strings.Repeat("9", 38), true},
		{strings.Repeat("9", 39), false},
		{"0." + strings.Repeat("1", 28), true},
		{strings.Repeat("0", 70) + "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, ok := ParseLenient(tt.input)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				assert.True(t, d.IsZero())
			}
		})
	}
}

func TestLenientDecimal_MissingField(t *testing.T) {
	var body struct {
		Price LenientDecimal `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.True(t, body.Price.Value.IsZero())
	assert.False(t, body.Price.Present)
}

func TestRoundDisplay(t *testing.T) {
	assert.Equal(t, "0.01", RoundDisplay(MustMoney("0.005")).String())
	assert.Equal(t, "3.33", RoundDisplay(MustMoney("3.3333")).String())
}

func TestCoerceNull(t *testing.T) {
	v, ok := CoerceNull(decimal.NullDecimal{})
	assert.False(t, ok)
	assert.True(t, v.IsZero())

	v, ok = CoerceNull(decimal.NewNullDecimal(MustMoney("7.25")))
	assert.True(t, ok)
	assert.Equal(t, "7.25", v.String())
}
