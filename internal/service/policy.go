package service

import (
	"strings"
	"unicode"
)

// passwordSymbols is the fixed punctuation set accepted as special
// characters by the reset-password policy.
const passwordSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// passwordPolicyViolations checks the password against the five reset-flow
// rules and returns every failed rule, or nil when the password passes.
func passwordPolicyViolations(password string) []string {
	var reasons []string
	if len(password) < 8 {
		reasons = append(reasons, "Password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
		if strings.ContainsRune(passwordSymbols, c) {
			hasSymbol = true
		}
	}
	if !hasUpper {
		reasons = append(reasons, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "Password must contain at least one number")
	}
	if !hasSymbol {
		reasons = append(reasons, "Password must contain at least one special character")
	}
	return reasons
}
