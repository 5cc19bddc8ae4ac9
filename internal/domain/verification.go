package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	// VerificationCodeLength is the length of an attendance verification code
	VerificationCodeLength = 6
	verificationAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// IssueVerificationCode generates a random code of VerificationCodeLength characters from [A-Z0-9].
// Codes are not guaranteed unique across applications.
func IssueVerificationCode() string {
	code := make([]byte, VerificationCodeLength)
	max := big.NewInt(int64(len(verificationAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Fallback to time-based selection if crypto/rand fails
			code[i] = verificationAlphabet[(time.Now().UnixNano()+int64(i))%int64(len(verificationAlphabet))]
			continue
		}
		code[i] = verificationAlphabet[n.Int64()]
	}
	return string(code)
}

// IsVerificationCode reports whether s has the shape of an issued code
func IsVerificationCode(s string) bool {
	if len(s) != VerificationCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
