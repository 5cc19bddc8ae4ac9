package validation

import (
	"errors"
	"testing"

	"github.com/formco/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, ValidateRegistration(" Jane@College.EDU ", "s3cretpass", "Jane Doe"))

	err := ValidateRegistration("not-an-email", "short", "J")
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)

	err = ValidateRegistration("jane@college.edu", "onlyletters", "Jane")
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "password must contain a letter and a digit", verrs[0].Message)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@college.edu", NormalizeEmail("  Jane@College.edu "))
}
