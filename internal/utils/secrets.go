package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret generates a cryptographically secure random secret
func GenerateSecret(bytes int) (string, error) {
	if bytes <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", bytes)
	}
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateUnlockTokenSecret generates the HMAC key for payroll and expenses unlock tokens
func GenerateUnlockTokenSecret() (string, error) {
	secret, err := GenerateSecret(32) // 256-bit
	if err != nil {
		return "", fmt.Errorf("failed to generate unlock token secret: %w", err)
	}
	return secret, nil
}
