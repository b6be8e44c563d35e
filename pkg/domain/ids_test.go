package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "eaglebank/pkg/domain-errors"
)

func TestParseAccountNumber(t *testing.T) {
	t.Run("accepts valid format", func(t *testing.T) {
		n, err := ParseAccountNumber("01234567")
		require.NoError(t, err)
		assert.Equal(t, "01234567", n.String())
	})

	for _, bad := range []string{"", "12345678", "01abc123", "0123456", "012345678"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseAccountNumber(bad)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestGenerateAccountNumber_MatchesFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^01\d{6}$`)
	for range 100 {
		n := GenerateAccountNumber()
		assert.Regexp(t, pattern, n.String())
		_, err := ParseAccountNumber(n.String())
		assert.NoError(t, err)
	}
}

func TestParseSortCode(t *testing.T) {
	t.Run("accepts valid format", func(t *testing.T) {
		s, err := ParseSortCode("12-34-56")
		require.NoError(t, err)
		assert.Equal(t, "12-34-56", s.String())
	})

	t.Run("default sort code is valid", func(t *testing.T) {
		_, err := ParseSortCode(DefaultSortCode.String())
		require.NoError(t, err)
	})

	for _, bad := range []string{"", "123456", "12-34-5", "ab-cd-ef", "12_34_56"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseSortCode(bad)
			require.Error(t, err)
		})
	}
}

func TestParseUserID(t *testing.T) {
	_, err := ParseUserID("")
	require.Error(t, err)

	_, err = ParseUserID("   ")
	require.Error(t, err)

	id, err := ParseUserID("some-user")
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	assert.NotEqual(t, GenerateUserID(), GenerateUserID())
}

func TestTransactionID(t *testing.T) {
	id := GenerateTransactionID()
	assert.True(t, strings.HasPrefix(id.String(), "tan-"))

	parsed, err := ParseTransactionID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseTransactionID(" ")
	require.Error(t, err)
}

func TestParseTransactionReference(t *testing.T) {
	ref, err := ParseTransactionReference("Salary June")
	require.NoError(t, err)
	assert.Equal(t, "Salary June", ref.String())

	_, err = ParseTransactionReference("")
	require.Error(t, err)

	_, err = ParseTransactionReference(strings.Repeat("x", 101))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = ParseTransactionReference(strings.Repeat("x", 100))
	require.NoError(t, err)
}
