// Package idgen generates opaque, URL-safe session tokens backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// TokenPrefix marks a value as a notes session token.
const TokenPrefix = "ns_"

// Alphabet is the character set of the random part. It is cookie-safe.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenLength is the number of random characters in a session token.
// 32 characters of a 62-symbol alphabet carry about 190 bits.
const TokenLength = 32

// SessionToken returns a new random session token.
func SessionToken() (string, error) {
	id, err := nanoid.Generate(Alphabet, TokenLength)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return TokenPrefix + id, nil
}

// IsSessionToken reports whether s has the shape of a token produced by
// SessionToken. It does not check that the token exists.
func IsSessionToken(s string) bool {
	if len(s) != len(TokenPrefix)+TokenLength || s[:len(TokenPrefix)] != TokenPrefix {
		return false
	}
	for _, r := range s[len(TokenPrefix):] {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return true
}
