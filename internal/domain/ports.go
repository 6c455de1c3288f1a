package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AliasRepository defines the interface for alias directory persistence.
type AliasRepository interface {
	// Create persists a new alias.
	// Returns ErrDuplicateAlias when the (kind, value) pair already exists.
	Create(ctx context.Context, alias *Alias) error

	// GetByID retrieves an alias by its unique identifier.
	// Returns ErrAliasNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Alias, error)

	// GetByValue retrieves an alias by exact value match, regardless of kind.
	// Returns ErrAliasNotFound if absent.
	GetByValue(ctx context.Context, value string) (*Alias, error)

	// ListByOwner retrieves every alias registered to an account.
	// Returns ErrAliasNotFound when the result would be empty
	// (EmptyResultIsNotFound policy).
	ListByOwner(ctx context.Context, ownerAccountID string) ([]Alias, error)
}

// TransferRepository defines the interface for the append-only transfer
// ledger. The ledger never validates business rules.
type TransferRepository interface {
	// Append persists one side of a completed transfer.
	Append(ctx context.Context, record *TransferRecord) error

	// GetByID retrieves a record by its unique identifier.
	// Returns ErrTransferNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*TransferRecord, error)

	// ListByParticipant retrieves every record where the account appears as
	// payer or payee, ordered by creation time.
	// Returns ErrTransferNotFound when the result would be empty
	// (EmptyResultIsNotFound policy).
	ListByParticipant(ctx context.Context, accountID string) ([]TransferRecord, error)
}

// BalanceGateway reads and mutates balances owned by the external user
// service. It holds no local state.
//
// Note there is no optimistic-concurrency token: SetBalance writes an
// absolute value computed from a GetBalance moments earlier, so two
// concurrent transfers from the same account can both read a stale balance
// and over-debit. The remote contract offers no version to carry.
type BalanceGateway interface {
	// GetBalance returns the account's balance and currency.
	// Returns ErrAccountServiceUnavailable on transport/protocol failure
	// and ErrBalanceNotFound when the service answered with no balance.
	GetBalance(ctx context.Context, accountID string) (Balance, error)

	// SetBalance replaces the account's balance with an absolute value.
	// Same failure split as GetBalance.
	SetBalance(ctx context.Context, accountID string, newBalance decimal.Decimal) error

	// GetProfile returns the account's display profile.
	// Returns ErrAccountServiceUnavailable on transport/protocol failure
	// and ErrUserNotFound when the service answered with no profile.
	GetProfile(ctx context.Context, accountID string) (Profile, error)
}

// ConversionGateway converts an amount between currencies using the
// external rate service. Pure from the caller's perspective, safe to retry.
type ConversionGateway interface {
	// Convert returns amount expressed in the target currency.
	// Returns ErrRateServiceUnavailable on transport/protocol failure and
	// ErrConversionNotFound when the service answered with no usable rate.
	Convert(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Notifier delivers a best-effort outbound message on transfer completion.
// Failures are logged by the orchestrator and never fail the transfer.
type Notifier interface {
	Send(ctx context.Context, phoneNumber, message string) error
}
