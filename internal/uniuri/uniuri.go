package uniuri

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// TokenLen gives ~119 bits of entropy with the default alphabet.
	TokenLen = 20

	// MaxLen limits a single token.
	MaxLen = 1024

	byteRange = 256
	minChars  = 2
)

// Alphabet is the default token alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	// ErrLength is returned for a non-positive or too large length.
	ErrLength = errors.New("uniuri: invalid token length")
	// ErrAlphabet is returned for an alphabet with fewer than 2 or more than 256 characters.
	ErrAlphabet = errors.New("uniuri: invalid alphabet length")
)

// Token returns a random token of length characters from Alphabet.
func Token(length int) (string, error) {
	return TokenFrom(length, Alphabet)
}

// TokenFrom returns a random token of length characters from alphabet.
func TokenFrom(length int, alphabet string) (string, error) {
	if length <= 0 || length > MaxLen {
		return "", fmt.Errorf("%w: %d", ErrLength, length)
	}

	n := len(alphabet)
	if n < minChars || n > byteRange {
		return "", fmt.Errorf("%w: %d", ErrAlphabet, n)
	}

	// bytes at or above limit would favour the first characters
	limit := byteRange - byteRange%n

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2) //nolint:mnd

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("uniuri: read random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, alphabet[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
