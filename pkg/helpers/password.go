package helpers

import (
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps a single hash in the tens of milliseconds on current hardware.
const DefaultBcryptCost = 12

var bcryptCost atomic.Int64

func init() { bcryptCost.Store(DefaultBcryptCost) }

// SetBcryptCost changes the cost used by HashPassword. Values outside bcrypt's
// supported range are clamped.
func SetBcryptCost(cost int) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	bcryptCost.Store(int64(cost))
}

// BcryptCost returns the cost currently used by HashPassword.
func BcryptCost() int { return int(bcryptCost.Load()) }

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
