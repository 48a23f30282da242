// internal/auth/code.go
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var ErrInvalidCode = errors.New("invalid or expired login code")

const maxCodeAttempts = 5

var codeSpace = big.NewInt(1_000_000)

type pendingCode struct {
	code     string
	expires  time.Time
	attempts int
}

// LoginCodes holds one pending six-digit code per user in memory. Issuing a
// new code replaces the previous one; a code is spent on its first match or
// after maxCodeAttempts misses.
type LoginCodes struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]pendingCode
	now   func() time.Time
}

func NewLoginCodes(ttl time.Duration) *LoginCodes {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LoginCodes{ttl: ttl, codes: make(map[string]pendingCode), now: time.Now}
}

func (s *LoginCodes) Issue(userID string) (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate login code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, p := range s.codes {
		if !now.Before(p.expires) {
			delete(s.codes, id)
		}
	}
	s.codes[userID] = pendingCode{code: code, expires: now.Add(s.ttl)}
	return code, nil
}

func (s *LoginCodes) Verify(userID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.codes[userID]
	if !ok {
		return ErrInvalidCode
	}
	if !s.now().Before(p.expires) {
		delete(s.codes, userID)
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(p.code), []byte(code)) != 1 {
		p.attempts++
		if p.attempts >= maxCodeAttempts {
			delete(s.codes, userID)
		} else {
			s.codes[userID] = p
		}
		return ErrInvalidCode
	}

	delete(s.codes, userID)
	return nil
}
