package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueVerificationCode_Shape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := IssueVerificationCode()
		assert.Len(t, code, VerificationCodeLength)
		assert.True(t, IsVerificationCode(code), "unexpected code %q", code)
	}
}

func TestIssueVerificationCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[IssueVerificationCode()] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestIsVerificationCode(t *testing.T) {
	assert.True(t, IsVerificationCode("AB12CD"))
	assert.False(t, IsVerificationCode("ab12cd"))
	assert.False(t, IsVerificationCode("AB12C"))
	assert.False(t, IsVerificationCode("AB-2CD"))
}
