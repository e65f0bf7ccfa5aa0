// Package otp issues and verifies short-lived one-time passwords for
// password resets. Codes live in memory only: a restart invalidates
// every outstanding code, which is acceptable for a single-server POS.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	codeTTL     = 10 * time.Minute
	maxAttempts = 5
)

var (
	ErrNotFound  = errors.New("no code requested for this email")
	ErrExpired   = errors.New("code has expired")
	ErrTooMany   = errors.New("too many incorrect attempts")
	ErrWrongCode = errors.New("incorrect code")
)

type entry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Issue generates a fresh 6-digit code for the email, replacing any
// outstanding one and resetting the attempt counter.
func (s *Store) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = &entry{
		code:      code,
		expiresAt: time.Now().Add(codeTTL),
	}
	return code, nil
}

// Verify checks a submitted code. A correct code is consumed; a wrong
// one burns an attempt, and the fifth wrong attempt burns the code.
func (s *Store) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, email)
		return ErrExpired
	}
	if e.code != code {
		e.attempts++
		if e.attempts >= maxAttempts {
			delete(s.entries, email)
			return ErrTooMany
		}
		return ErrWrongCode
	}

	delete(s.entries, email)
	return nil
}
