package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBase(t *testing.T) {
	tests := []struct {
		name         string
		value        float64
		unit         string
		piecesPerBox int
		want         float64
	}{
		{"kg to grams", 2.5, "kg", 0, 2500},
		{"grams stay grams", 750, "g", 0, 750},
		{"liters to ml", 1.2, "L", 0, 1200},
		{"liter spelled out", 2, "liters", 0, 2000},
		{"ml stay ml", 330, "ml", 0, 330},
		{"pcs stay pcs", 12, "pcs", 0, 12},
		{"piece alias", 3, "piece", 0, 3},
		{"box to pieces", 2, "box", 24, 48},
		{"unit is case insensitive", 1, "KG", 0, 1000},
		{"unit is trimmed", 1, " kg ", 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBase(tt.value, tt.unit, tt.piecesPerBox)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToBaseUnsupportedUnit(t *testing.T) {
	_, err := ToBase(5, "bags", 0)
	require.Error(t, err)

	var unsupported *UnsupportedUnitError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "bags", unsupported.Unit)
}

func TestToBaseBoxWithoutFactor(t *testing.T) {
	_, err := ToBase(2, "box", 0)
	assert.ErrorIs(t, err, ErrPiecesPerBoxRequired)
}

func TestBaseUnitOf(t *testing.T) {
	for unit, want := range map[string]string{
		"kg": Grams, "g": Grams,
		"L": Milliliters, "ml": Milliliters, "liters": Milliliters,
		"pcs": Pieces, "pieces": Pieces, "box": Pieces,
	} {
		got, err := BaseUnitOf(unit)
		require.NoError(t, err, unit)
		assert.Equal(t, want, got, unit)
	}

	_, err := BaseUnitOf("dozen")
	var unsupported *UnsupportedUnitError
	assert.True(t, errors.As(err, &unsupported))
}

func TestFromBaseDisplayThresholds(t *testing.T) {
	assert.Equal(t, Display{Value: 2.5, Unit: "kg"}, FromBase(2500, Grams, 0))
	assert.Equal(t, Display{Value: 999, Unit: "g"}, FromBase(999, Grams, 0))
	assert.Equal(t, Display{Value: 1, Unit: "kg"}, FromBase(1000, Grams, 0))
	assert.Equal(t, Display{Value: 1.5, Unit: "L"}, FromBase(1500, Milliliters, 0))
	assert.Equal(t, Display{Value: 330, Unit: "ml"}, FromBase(330, Milliliters, 0))
	assert.Equal(t, Display{Value: 12, Unit: "pcs"}, FromBase(12, Pieces, 0))
}

func TestFromBaseBoxDisplay(t *testing.T) {
	// Enough pieces for a box -> fractional boxes, rounded to 2 decimals
	assert.Equal(t, Display{Value: 2.5, Unit: "box"}, FromBase(60, Pieces, 24))
	// Below one box -> stays in pieces
	assert.Equal(t, Display{Value: 20, Unit: "pcs"}, FromBase(20, Pieces, 24))
	// No factor known -> pieces even for big counts
	assert.Equal(t, Display{Value: 500, Unit: "pcs"}, FromBase(500, Pieces, 0))
}

// Round-trip law: converting to base and back recovers the original value,
// within the 2-decimal display rounding.
func TestRoundTrip(t *testing.T) {
	cases := []struct {
		value        float64
		unit         string
		piecesPerBox int
	}{
		{2.5, "kg", 0},
		{1.25, "kg", 0},
		{750, "g", 0},
		{3.3, "L", 0},
		{330, "ml", 0},
		{12, "pcs", 0},
		{2, "box", 24},
	}

	for _, tc := range cases {
		base, err := ToBase(tc.value, tc.unit, tc.piecesPerBox)
		require.NoError(t, err)

		baseUnit, err := BaseUnitOf(tc.unit)
		require.NoError(t, err)

		display := FromBase(base, baseUnit, tc.piecesPerBox)
		recovered, err := ToBase(display.Value, display.Unit, tc.piecesPerBox)
		require.NoError(t, err)

		assert.InDelta(t, base, recovered, 0.005*1000, "%v %s", tc.value, tc.unit)
	}
}
