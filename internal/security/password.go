package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 8

// HashPassword digests a plaintext password with bcrypt at the default cost.
// bcrypt salts each digest itself, no fixed application salt is involved.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// digest. A mismatch is not an error, only unexpected bcrypt failures are.
func VerifyPassword(digest, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("error comparing password with digest: %w", err)
	}
	return true, nil
}
