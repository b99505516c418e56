package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		message  string
	}{
		{"password1", "Password must contain at least one uppercase letter"},
		{"PASSWORD1", "Password must contain at least one lowercase letter"},
		{"Password", "Password must contain at least one digit"},
		{"Pass1", "Password must be at least 8 characters"},
		{"Password1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail("ada@example"))
	assert.Error(t, ValidateEmail("ada example.com"))
}

func TestValidateSearchQuery(t *testing.T) {
	_, err := ValidateSearchQuery(" a ")
	assert.ErrorIs(t, err, ErrValidation)

	q, err := ValidateSearchQuery("  go ")
	require.NoError(t, err)
	assert.Equal(t, "go", q)
}

func TestValidatePagination(t *testing.T) {
	assert.NoError(t, ValidatePagination(1, 1))
	assert.NoError(t, ValidatePagination(3, MaxPageSize))
	assert.Error(t, ValidatePagination(0, 10))
	assert.Error(t, ValidatePagination(1, 0))
	assert.Error(t, ValidatePagination(1, MaxPageSize+1))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello\tworld\nbye", SanitizeText("  hello\tworld\x07\nbye\x1b "))
	assert.Equal(t, "ada@example.com", SanitizeEmail(" Ada@Example.COM "))
	assert.Equal(t, "+44 (20) 7946-0958", SanitizePhone(" +44 (20) 7946-0958 x"))

	empty := ""
	assert.Nil(t, sanitizeOptional(&empty, SanitizeText))
	letters := "abc"
	assert.Nil(t, sanitizeOptional(&letters, SanitizePhone))
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)
	hash, err := h.Hash("Password1")
	require.NoError(t, err)
	assert.True(t, h.Matches(hash, "Password1"))
	assert.False(t, h.Matches(hash, "Password2"))
	assert.False(t, h.Matches("", "Password1"))

	long := strings.Repeat("x", 80)
	hash, err = h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Matches(hash, long))
	assert.False(t, h.Matches(hash, long[:72]+"y"))

	assert.Equal(t, 10, NewPasswordHasher(99).cost)
}
