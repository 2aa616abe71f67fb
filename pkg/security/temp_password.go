package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MinTempPasswordLength is the floor the identity platform enforces plus
// headroom; requests for shorter secrets are bumped up.
const MinTempPasswordLength = 12

const (
	upperChars = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars = "abcdefghijkmnopqrstuvwxyz"
	digitChars = "23456789"
	punctChars = "!@#$%^&*-_=+"
)

var allTempPasswordChars = upperChars + lowerChars + digitChars + punctChars

// GenerateTempPassword produces a random secret that satisfies the identity
// platform's password policy: mixed case, at least one digit and one
// punctuation character. Ambiguous glyphs (0/O, 1/l/I) are excluded.
func GenerateTempPassword(length int) (string, error) {
	if length < MinTempPasswordLength {
		length = MinTempPasswordLength
	}

	result := make([]byte, 0, length)

	// one guaranteed pick per character class
	for _, set := range []string{upperChars, lowerChars, digitChars, punctChars} {
		ch, err := randChar(set)
		if err != nil {
			return "", err
		}
		result = append(result, ch)
	}

	for len(result) < length {
		ch, err := randChar(allTempPasswordChars)
		if err != nil {
			return "", err
		}
		result = append(result, ch)
	}

	if err := shuffle(result); err != nil {
		return "", err
	}
	return string(result), nil
}

func randChar(set string) (byte, error) {
	idx, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[idx], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("reading random bytes: %w", err)
	}
	return int(n.Int64()), nil
}
