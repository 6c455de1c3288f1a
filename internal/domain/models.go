package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AliasKind identifies how an alias value was formed.
type AliasKind string

const (
	AliasKindTaxID  AliasKind = "tax_id"
	AliasKindPhone  AliasKind = "phone"
	AliasKindEmail  AliasKind = "email"
	AliasKindRandom AliasKind = "random"
)

// Valid reports whether the kind is one of the supported alias kinds.
func (k AliasKind) Valid() bool {
	switch k {
	case AliasKindTaxID, AliasKindPhone, AliasKindEmail, AliasKindRandom:
		return true
	}
	return false
}

// Alias maps a human-memorable key (phone, email, tax id or a random token)
// to exactly one owning account. The pair (Kind, Value) is unique.
type Alias struct {
	ID             uuid.UUID
	Kind           AliasKind
	Value          string
	OwnerAccountID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Balance is an account's current balance as reported by the external
// user service. It is never stored locally.
type Balance struct {
	Value    decimal.Decimal
	Currency string
}

// Role marks which side of a transfer a ledger record describes.
type Role string

const (
	RoleSent     Role = "sent"
	RoleReceived Role = "received"
)

// TransferRecord is one side of a completed transfer. Two records share a
// TransferID, one per participant, and are never mutated after Append.
type TransferRecord struct {
	ID             uuid.UUID
	TransferID     uuid.UUID
	PayerAccountID string
	PayeeAccountID string
	PayeeAlias     string
	Currency       string
	Amount         decimal.Decimal
	Role           Role
	CreatedAt      time.Time
}

// Profile is the display data the user service holds for an account.
type Profile struct {
	AccountID     string
	Name          string
	TaxID         string
	Institution   string
	Agency        string
	AccountNumber string
	Currency      string
	Balance       decimal.Decimal
	Cellphone     string
}

// Party is the subset of a profile that appears on a receipt.
type Party struct {
	ID            string
	Name          string
	TaxID         string
	Institution   string
	Agency        string
	AccountNumber string
}

// Party projects the receipt-facing fields of a profile.
func (p Profile) Party() Party {
	return Party{
		ID:            p.AccountID,
		Name:          p.Name,
		TaxID:         p.TaxID,
		Institution:   p.Institution,
		Agency:        p.Agency,
		AccountNumber: p.AccountNumber,
	}
}

// Receipt is the outward-facing view of a transfer, assembled from the
// payer-side record plus both participants' profiles. It is derived on
// demand and not persisted.
type Receipt struct {
	ID       uuid.UUID
	Value    decimal.Decimal
	Currency string
	Date     time.Time
	From     Party
	To       Party
}

// ValidateCurrencyCode validates that a currency code follows ISO 4217 format.
func ValidateCurrencyCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: currency code cannot be empty", ErrInvalidInput)
	}

	if len(code) != 3 {
		return fmt.Errorf("%w: currency code must be 3 characters (ISO 4217)", ErrInvalidInput)
	}

	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("%w: currency code must contain only uppercase letters", ErrInvalidInput)
		}
	}

	return nil
}
