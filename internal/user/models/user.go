package models

import (
	"regexp"
	"strings"
	"time"

	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

// Email is a normalized email address. Stored lowercase so lookups are
// case-insensitive.
type Email string

func ParseEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email cannot be empty")
	}
	normalized := strings.ToLower(raw)
	if !emailPattern.MatchString(normalized) {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid email format: %q", raw)
	}
	return Email(normalized), nil
}

func (e Email) String() string { return string(e) }

// PhoneNumber is an E.164 phone number. Spaces, parentheses and dashes are
// stripped before validation.
type PhoneNumber string

func ParsePhoneNumber(raw string) (PhoneNumber, error) {
	if strings.TrimSpace(raw) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "phone number cannot be empty")
	}
	normalized := phoneNoise.Replace(raw)
	if !phonePattern.MatchString(normalized) {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid phone number format: %q", raw)
	}
	return PhoneNumber(normalized), nil
}

func (p PhoneNumber) String() string { return string(p) }

// Address is a physical postal address. Line1, Town, County and Postcode are
// required; Line2 and Line3 are optional.
type Address struct {
	Line1    string
	Line2    string
	Line3    string
	Town     string
	County   string
	Postcode string
}

func NewAddress(line1, line2, line3, town, county, postcode string) (Address, error) {
	if strings.TrimSpace(line1) == "" {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address line1 cannot be empty")
	}
	if strings.TrimSpace(town) == "" {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address town cannot be empty")
	}
	if strings.TrimSpace(county) == "" {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address county cannot be empty")
	}
	if strings.TrimSpace(postcode) == "" {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address postcode cannot be empty")
	}
	return Address{
		Line1:    line1,
		Line2:    line2,
		Line3:    line3,
		Town:     town,
		County:   county,
		Postcode: postcode,
	}, nil
}

// IsZero reports whether the address is entirely unset.
func (a Address) IsZero() bool { return a == Address{} }

// User is the aggregate root for a bank customer.
//
// Invariants:
//   - ID and CreatedAt are immutable after creation
//   - Email, PhoneNumber and Address are always valid value objects
//   - PasswordHash is never empty and never holds a raw password
type User struct {
	ID           domain.UserID
	Name         string
	Email        Email
	PhoneNumber  PhoneNumber
	Address      Address
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a customer record. passwordHash must already be hashed;
// hashing lives with the application service.
func NewUser(
	id domain.UserID,
	name string,
	email Email,
	phone PhoneNumber,
	address Address,
	passwordHash string,
	now time.Time,
) (*User, error) {
	if id.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "user name cannot be empty")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if phone == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "phone number is required")
	}
	if address.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password hash cannot be empty")
	}
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PhoneNumber:  phone,
		Address:      address,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Reconstitute rebuilds a user from persisted state.
func Reconstitute(
	id domain.UserID,
	name string,
	email Email,
	phone PhoneNumber,
	address Address,
	passwordHash string,
	createdAt, updatedAt time.Time,
) (*User, error) {
	user, err := NewUser(id, name, email, phone, address, passwordHash, createdAt)
	if err != nil {
		return nil, err
	}
	user.UpdatedAt = updatedAt
	return user, nil
}

// UpdatePersonalInfo applies a partial update: empty name, zero phone and
// zero address each mean "keep the current value".
func (u *User) UpdatePersonalInfo(name string, phone PhoneNumber, address Address, now time.Time) {
	if strings.TrimSpace(name) != "" {
		u.Name = name
	}
	if phone != "" {
		u.PhoneNumber = phone
	}
	if !address.IsZero() {
		u.Address = address
	}
	u.UpdatedAt = now
}

// ChangePassword replaces the stored hash.
func (u *User) ChangePassword(newPasswordHash string, now time.Time) error {
	if strings.TrimSpace(newPasswordHash) == "" {
		return dErrors.New(dErrors.CodeValidation, "password hash cannot be empty")
	}
	u.PasswordHash = newPasswordHash
	u.UpdatedAt = now
	return nil
}
