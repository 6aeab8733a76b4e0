package domain

import "errors"

// Typed failures returned by the core services. Handlers map these to
// status codes; services never leak provider errors past their boundary.
var (
	// ErrNotFound - symbol unknown to all sources. Surfaced only from
	// detail-lookup paths, never from price resolution (which degrades to
	// a synthetic quote instead).
	ErrNotFound = errors.New("not found")

	// ErrAccountNotFound - no account with the given identity.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds - buy total exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings - sell quantity exceeds the held quantity.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrInvalidQuantity - non-positive trade quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrDuplicateAccount - registration with an email already in use.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials - authentication failure.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUpstreamUnavailable - a live data source failed. Recovered
	// internally by fallback; callers of Resolve never see it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPersistence - a ledger write failed. The mutation is aborted and
	// in-memory state is left unchanged.
	ErrPersistence = errors.New("persistence failure")
)
