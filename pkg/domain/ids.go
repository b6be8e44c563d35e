// Package domain holds the value objects shared across aggregates: Money and
// the validated identifier types. Identifiers are distinct string types so the
// compiler keeps an AccountNumber from ever standing in for a UserID.
package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "eaglebank/pkg/domain-errors"
)

type (
	// AccountNumber identifies an account: "01" followed by six digits.
	AccountNumber string

	// SortCode is a UK sort code in XX-XX-XX form.
	SortCode string

	// UserID is an opaque non-blank user identifier, a UUID when generated here.
	UserID string

	// TransactionID identifies a ledger entry: "tan-" followed by a UUID.
	TransactionID string

	// TransactionReference is a caller-supplied free-text label, at most 100
	// characters.
	TransactionReference string
)

const (
	accountNumberPrefix = "01"

	// DefaultSortCode is the sort code assigned to every account; the bank
	// operates a single branch.
	DefaultSortCode SortCode = "10-10-10"

	transactionIDPrefix = "tan-"

	maxTransactionReferenceLen = 100
)

var (
	accountNumberPattern = regexp.MustCompile(`^01\d{6}$`)
	sortCodePattern      = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}$`)
)

// ParseAccountNumber validates the 01xxxxxx format.
func ParseAccountNumber(value string) (AccountNumber, error) {
	if value == "" {
		return "", dErrors.New(dErrors.CodeValidation, "account number cannot be empty")
	}
	if !accountNumberPattern.MatchString(value) {
		return "", dErrors.Newf(dErrors.CodeValidation,
			"invalid account number format: %q, must be 01 followed by six digits", value)
	}
	return AccountNumber(value), nil
}

// GenerateAccountNumber draws a random account number. Uniqueness is not
// guaranteed here; callers must check the store and redraw on collision.
func GenerateAccountNumber() AccountNumber {
	return AccountNumber(fmt.Sprintf("%s%06d", accountNumberPrefix, rand.Intn(1000000)))
}

func (n AccountNumber) String() string { return string(n) }

// ParseSortCode validates the XX-XX-XX digit-pair format.
func ParseSortCode(value string) (SortCode, error) {
	if value == "" {
		return "", dErrors.New(dErrors.CodeValidation, "sort code cannot be empty")
	}
	if !sortCodePattern.MatchString(value) {
		return "", dErrors.Newf(dErrors.CodeValidation,
			"invalid sort code format: %q, must be XX-XX-XX", value)
	}
	return SortCode(value), nil
}

func (s SortCode) String() string { return string(s) }

// ParseUserID accepts any non-blank identifier.
func ParseUserID(value string) (UserID, error) {
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "user id cannot be empty")
	}
	return UserID(value), nil
}

// GenerateUserID returns a new random user ID.
func GenerateUserID() UserID {
	return UserID(uuid.NewString())
}

func (u UserID) String() string { return string(u) }

// IsZero reports whether the ID is unset.
func (u UserID) IsZero() bool { return u == "" }

// ParseTransactionID accepts any non-blank identifier. The tan- prefix is a
// generation convention, not a validation rule: reconstitution must accept
// whatever identifiers are already in the ledger.
func ParseTransactionID(value string) (TransactionID, error) {
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "transaction id cannot be empty")
	}
	return TransactionID(value), nil
}

// GenerateTransactionID returns a new random ledger entry ID.
func GenerateTransactionID() TransactionID {
	return TransactionID(transactionIDPrefix + uuid.NewString())
}

func (t TransactionID) String() string { return string(t) }

// ParseTransactionReference validates length and non-blankness.
func ParseTransactionReference(value string) (TransactionReference, error) {
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "transaction reference cannot be empty")
	}
	if len(value) > maxTransactionReferenceLen {
		return "", dErrors.Newf(dErrors.CodeValidation,
			"transaction reference cannot exceed %d characters", maxTransactionReferenceLen)
	}
	return TransactionReference(value), nil
}

func (r TransactionReference) String() string { return string(r) }
