package validation

import (
	"errors"
	"strings"
)

// ValidateAdminPassword checks the strength of a plain admin secret.
// Enforces NIST recommendations: minimum 12 characters, blocks common patterns
func ValidateAdminPassword(password string) error {
	if len(password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return errors.New("admin password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "admin", "letmein",
		"welcome", "gallery", "artwork", "portfolio",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("admin password is too common, please choose a stronger one")
		}
	}

	return nil
}
