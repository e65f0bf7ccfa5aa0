package orders

import (
	"strconv"
	"strings"
	"testing"

	"bistro-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func allocatorDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IssuedOrderID{}))
	return db
}

func TestAllocateNoDuplicates(t *testing.T) {
	db := allocatorDB(t)
	a := NewAllocator(db)

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := a.Allocate()
		require.False(t, seen[id], "duplicate order ID %s at allocation %d", id, i)
		seen[id] = true
	}
}

func TestAllocateFourDigitsFirst(t *testing.T) {
	db := allocatorDB(t)
	a := NewAllocator(db)

	id := a.Allocate()
	require.Len(t, id, 4)
	n, err := strconv.Atoi(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1000)
	assert.LessOrEqual(t, n, 9999)
}

func TestAllocateSwitchesToFiveDigitsAtNinetyPercent(t *testing.T) {
	db := allocatorDB(t)

	// Seed 8100 issued 4-digit IDs (90% of the 9000-slot pool)
	var seed []models.IssuedOrderID
	for n := 1000; n < 1000+8100; n++ {
		seed = append(seed, models.IssuedOrderID{Value: strconv.Itoa(n), Digits: 4})
	}
	require.NoError(t, db.CreateInBatches(seed, 500).Error)

	a := NewAllocator(db)
	for i := 0; i < 50; i++ {
		id := a.Allocate()
		if strings.HasPrefix(id, "T") {
			t.Fatalf("unexpected fallback ID %s with 5-digit pool nearly empty", id)
		}
		assert.Len(t, id, 5, "allocation %d should be 5 digits once the 4-digit pool is 90%% used", i)
		n, err := strconv.Atoi(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10000)
		assert.LessOrEqual(t, n, 99999)
	}
}

func TestAllocateRecordsBeforeReturning(t *testing.T) {
	db := allocatorDB(t)
	a := NewAllocator(db)

	id := a.Allocate()

	var record models.IssuedOrderID
	require.NoError(t, db.Where("value = ?", id).First(&record).Error)
	assert.Equal(t, 4, record.Digits)
}

func TestAllocateFallsBackToTimestamp(t *testing.T) {
	db := allocatorDB(t)

	// Fill the entire 4-digit range so every draw collides
	var seed []models.IssuedOrderID
	for n := 1000; n <= 9999; n++ {
		seed = append(seed, models.IssuedOrderID{Value: strconv.Itoa(n), Digits: 4})
	}
	require.NoError(t, db.CreateInBatches(seed, 500).Error)

	// Leave the counter below the cutover so the allocator still draws
	// 4-digit candidates and exhausts its retries.
	require.NoError(t, db.Model(&models.IssuedOrderID{}).
		Where("value >= ?", "9000").Update("digits", 0).Error)

	a := NewAllocator(db)
	id := a.Allocate()
	assert.True(t, strings.HasPrefix(id, "T"),
		"exhausted pool must degrade to the timestamp fallback, got %s", id)
}

func TestStats(t *testing.T) {
	db := allocatorDB(t)
	a := NewAllocator(db)

	for i := 0; i < 5; i++ {
		a.Allocate()
	}

	stats, err := a.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.FourDigitUsed)
	assert.EqualValues(t, 5, stats.TotalUsed)
	assert.EqualValues(t, 9000, stats.FourDigitCapacity)
}
