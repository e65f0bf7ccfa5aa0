package inventory

import (
	"testing"
	"time"

	"bistro-pos/internal/units"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		quantity float64
		baseUnit string
		want     Status
	}{
		{0, units.Pieces, StatusEmpty},
		{5, units.Pieces, StatusNeedRestocking},
		{9, units.Pieces, StatusNeedRestocking},
		{10, units.Pieces, StatusSteady},
		{0, units.Grams, StatusEmpty},
		{499, units.Grams, StatusNeedRestocking},
		{500, units.Grams, StatusSteady},
		{0, units.Milliliters, StatusEmpty},
		{499, units.Milliliters, StatusNeedRestocking},
		{500, units.Milliliters, StatusSteady},
		// Negative snapshots (should not happen, but classify defensively)
		{-1, units.Grams, StatusEmpty},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.quantity, tt.baseUnit),
			"Classify(%v, %s)", tt.quantity, tt.baseUnit)
	}
}

func TestPriorityOrdering(t *testing.T) {
	assert.Less(t, Priority(StatusEmpty), Priority(StatusNeedRestocking))
	assert.Less(t, Priority(StatusNeedRestocking), Priority(StatusSteady))
}

func TestClassifyExpiration(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	past := now.Add(-24 * time.Hour)
	soon := now.Add(3 * 24 * time.Hour)
	far := now.Add(30 * 24 * time.Hour)

	assert.Equal(t, ExpirationGood, ClassifyExpiration(nil, now))
	assert.Equal(t, ExpirationExpired, ClassifyExpiration(&past, now))
	assert.Equal(t, ExpirationSoon, ClassifyExpiration(&soon, now))
	assert.Equal(t, ExpirationGood, ClassifyExpiration(&far, now))
}

func TestExpirationPriorityOrdering(t *testing.T) {
	assert.Less(t, ExpirationPriority(ExpirationExpired), ExpirationPriority(ExpirationSoon))
	assert.Less(t, ExpirationPriority(ExpirationSoon), ExpirationPriority(ExpirationGood))
}
