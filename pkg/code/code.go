package code

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	// Length is the exact length of an access code.
	Length = 7

	// maxGenerateAttempts bounds the digit-inclusion retry loop so a
	// degenerate random source cannot stall generation.
	maxGenerateAttempts = 10
)

// ErrGenerationFailed is returned when no candidate containing a digit could be drawn within the attempt budget.
var ErrGenerationFailed = errors.New("failed to generate access code")

var chars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890")

// Generate draws a random access code of Length characters from 'chars'.
// It returns the first draw satisfying Valid, retrying draws without a digit.
func Generate() (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		b := make([]byte, Length)
		for i := range b {
			charIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
			if err != nil {
				return "", fmt.Errorf("failed to draw random character: %w", err)
			}
			b[i] = chars[charIdx.Int64()]
		}

		if candidate := string(b); Valid(candidate) {
			return candidate, nil
		}
	}

	return "", ErrGenerationFailed
}

// Valid reports whether s is a well-formed access code: exactly Length ASCII
// letters or digits, at least one of them a digit. Generation and validation
// of submitted codes both rely on this single predicate.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}

	hasDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}

	return hasDigit
}
