package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts; longer passwords
// are refused instead of being silently truncated.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword     = errors.New("password is empty")
	ErrPasswordTooLong   = fmt.Errorf("password longer than %d bytes", MaxPasswordBytes)
	ErrInvalidBcryptCost = fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

// Bcrypt hashes account passwords with a fixed work factor.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher; cost 0 means bcrypt.DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidBcryptCost
	}
	return &Bcrypt{cost: cost}, nil
}

// CheckPassword applies the hashing limits to a plaintext password.
func CheckPassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

func (b *Bcrypt) Hash(password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

// Compare reports whether password matches hash. Hashes made with a cost
// other than the current one still verify.
func (b *Bcrypt) Compare(hash, password string) bool {
	if len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
