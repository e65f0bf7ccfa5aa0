package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	store := NewStore()

	code, err := store.Issue("chef@bistro.ph")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.NoError(t, store.Verify("chef@bistro.ph", code))

	// Consumed on success
	assert.ErrorIs(t, store.Verify("chef@bistro.ph", code), ErrNotFound)
}

func TestVerifyUnknownEmail(t *testing.T) {
	store := NewStore()
	assert.ErrorIs(t, store.Verify("nobody@bistro.ph", "123456"), ErrNotFound)
}

func TestWrongCodeBurnsAttempts(t *testing.T) {
	store := NewStore()
	code, err := store.Issue("chef@bistro.ph")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, store.Verify("chef@bistro.ph", "000000"), ErrWrongCode)
	}
	// Fifth wrong attempt locks the code out
	assert.ErrorIs(t, store.Verify("chef@bistro.ph", "000000"), ErrTooMany)
	// Even the right code no longer works
	assert.ErrorIs(t, store.Verify("chef@bistro.ph", code), ErrNotFound)
}

func TestExpiredCode(t *testing.T) {
	store := NewStore()
	code, err := store.Issue("chef@bistro.ph")
	require.NoError(t, err)

	store.mu.Lock()
	store.entries["chef@bistro.ph"].expiresAt = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	assert.ErrorIs(t, store.Verify("chef@bistro.ph", code), ErrExpired)
}

func TestReissueReplacesCode(t *testing.T) {
	store := NewStore()
	first, err := store.Issue("chef@bistro.ph")
	require.NoError(t, err)
	second, err := store.Issue("chef@bistro.ph")
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, store.Verify("chef@bistro.ph", first), ErrWrongCode)
	}
	assert.NoError(t, store.Verify("chef@bistro.ph", second))
}
