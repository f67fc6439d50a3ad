package passcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt cost used for pass code hashes
	DefaultCost = bcrypt.DefaultCost

	digits = 6
)

var (
	ErrEmptyCode   = errors.New("pass code cannot be empty")
	ErrInvalidCode = errors.New("invalid pass code")
)

// Generate returns a random numeric pass code of six digits.
func Generate() (string, error) {
	upper := big.NewInt(1_000_000)

	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to generate pass code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// Hash generates a bcrypt hash of the code
func Hash(code string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(code), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pass code: %w", err)
	}

	return string(bytes), nil
}

// Verify checks if the provided code matches the hash
func Verify(code, hash string) error {
	if code == "" || hash == "" {
		return ErrInvalidCode
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCode
		}

		return fmt.Errorf("failed to verify pass code: %w", err)
	}

	return nil
}
