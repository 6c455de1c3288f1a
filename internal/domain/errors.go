package domain

import "errors"

// Not-found faults: confirmed absence, never worth retrying.
var (
	// ErrAliasNotFound is returned when no alias matches the lookup.
	ErrAliasNotFound = errors.New("alias not found")

	// ErrUserNotFound is returned when the user service has no profile
	// for the account.
	ErrUserNotFound = errors.New("user not found")

	// ErrBalanceNotFound is returned when the user service answered but
	// reported no balance for the account.
	ErrBalanceNotFound = errors.New("balance not found")

	// ErrTransferNotFound is returned when no ledger record matches the lookup.
	ErrTransferNotFound = errors.New("transfer not found")
)

// ErrConversionNotFound is returned when the rate service answered but
// yielded no usable rate for the requested pair. A data-absence fault, not
// retryable, but surfaced as a rejection rather than a 404 because the
// transfer request itself named a resolvable recipient.
var ErrConversionNotFound = errors.New("conversion not found")

// Business-rule faults: the request was understood and rejected.
var (
	// ErrInsufficientBalance is returned when the payer would go negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateAlias is returned when an alias with the same kind and
	// value already exists.
	ErrDuplicateAlias = errors.New("alias already in use")

	// ErrInvalidAmount is returned when the transfer amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount: must be positive")

	// ErrUnsupportedConversionPath is returned when payer, receiver and
	// requested currencies combine in a way no conversion rule covers.
	ErrUnsupportedConversionPath = errors.New("unsupported currency combination")

	// ErrInvalidInput wraps request-shape faults: a malformed or missing
	// field that fails before any business rule is consulted.
	ErrInvalidInput = errors.New("invalid input")
)

// Infrastructure faults: transient, the only class worth retrying.
var (
	// ErrAccountServiceUnavailable is returned when the user service
	// could not be reached or answered with a non-success status.
	ErrAccountServiceUnavailable = errors.New("account service unavailable")

	// ErrRateServiceUnavailable is returned when the conversion service
	// could not be reached or answered with a non-success status.
	ErrRateServiceUnavailable = errors.New("rate service unavailable")
)

// ErrInconsistentBalances marks the fatal partial-failure case: the
// receiver was credited, the payer debit failed, and the compensating
// credit-back also failed. There is no local recovery from this state.
var ErrInconsistentBalances = errors.New("balances left inconsistent: receiver credited without payer debit")

// EmptyResultIsNotFound names the policy that list operations on the alias
// directory and the transfer ledger report an empty result as a not-found
// fault instead of an empty success. Callers of the external API depend on
// the 404, so tests assert this deliberately.
const EmptyResultIsNotFound = true

// IsNotFound reports whether err is one of the confirmed-absence faults.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAliasNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrBalanceNotFound) ||
		errors.Is(err, ErrTransferNotFound)
}

// IsUnavailable reports whether err is a transient infrastructure fault.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAccountServiceUnavailable) ||
		errors.Is(err, ErrRateServiceUnavailable)
}
