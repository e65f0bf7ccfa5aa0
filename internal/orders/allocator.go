package orders

import (
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"bistro-pos/internal/models"

	"gorm.io/gorm"
)

const (
	fourDigitCapacity = 9000 // 1000-9999
	// Once 90% of the 4-digit pool is issued we switch to 5 digits for good
	fourDigitCutover = fourDigitCapacity * 9 / 10
	maxAttempts      = 100
)

// Allocator hands out unique customer-facing order numbers.
//
// Numbers are drawn at random from the 4-digit range (1000-9999) until 90%
// of that pool has been issued, then permanently from the 5-digit range
// (10000-99999). Issued numbers live in their own table with a unique
// index, so every terminal shares one pool and a collision between two
// registers is caught by the database, not by local state.
type Allocator struct {
	db  *gorm.DB
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Allocate returns a new unique order number. It never fails: if no unique
// number can be drawn after the retry budget, a timestamp-derived fallback
// (prefixed 'T' so it cannot collide with numeric IDs) is issued instead.
// The number is recorded as issued before it is returned.
func (a *Allocator) Allocate() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	useFiveDigits := a.fourDigitPoolNearlyFull()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var candidate string
		var digits int
		if useFiveDigits {
			candidate = strconv.Itoa(a.rng.Intn(90000) + 10000)
			digits = 5
		} else {
			candidate = strconv.Itoa(a.rng.Intn(9000) + 1000)
			digits = 4
		}

		// Record first, hand out second. The unique index rejects numbers
		// another terminal grabbed since our pool check.
		record := models.IssuedOrderID{Value: candidate, Digits: digits}
		if err := a.db.Create(&record).Error; err == nil {
			return candidate
		}
	}

	// Retry budget exhausted: fall back to a guaranteed-unique timestamp ID.
	fallback := "T" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := a.db.Create(&models.IssuedOrderID{Value: fallback}).Error; err != nil {
		log.Printf("⚠️ Could not record fallback order ID %s: %v", fallback, err)
	}
	log.Printf("⚠️ Order ID pool exhausted after %d attempts, using fallback %s", maxAttempts, fallback)
	return fallback
}

func (a *Allocator) fourDigitPoolNearlyFull() bool {
	var used int64
	if err := a.db.Model(&models.IssuedOrderID{}).Where("digits = ?", 4).Count(&used).Error; err != nil {
		log.Printf("⚠️ Could not count issued order IDs: %v", err)
		return false
	}
	return used >= fourDigitCutover
}

// Stats reports pool utilization, mirroring what the POS shows on the
// diagnostics screen.
type Stats struct {
	FourDigitUsed     int64 `json:"four_digit_used"`
	FiveDigitUsed     int64 `json:"five_digit_used"`
	TotalUsed         int64 `json:"total_used"`
	FourDigitCapacity int64 `json:"four_digit_capacity"`
	FiveDigitCapacity int64 `json:"five_digit_capacity"`
}

func (a *Allocator) Stats() (Stats, error) {
	s := Stats{FourDigitCapacity: 9000, FiveDigitCapacity: 90000}
	if err := a.db.Model(&models.IssuedOrderID{}).Where("digits = ?", 4).Count(&s.FourDigitUsed).Error; err != nil {
		return s, err
	}
	if err := a.db.Model(&models.IssuedOrderID{}).Where("digits = ?", 5).Count(&s.FiveDigitUsed).Error; err != nil {
		return s, err
	}
	if err := a.db.Model(&models.IssuedOrderID{}).Count(&s.TotalUsed).Error; err != nil {
		return s, err
	}
	return s, nil
}
