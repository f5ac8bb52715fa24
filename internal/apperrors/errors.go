package apperrors

import "errors"

// ErrNotFound indicates that a requested resource (movement, client or
// product) could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that a movement failed a business rule or that
// input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInsufficientFunds indicates that the source product balance does not
// cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSameClient indicates a third party payment where both products belong
// to the same client.
var ErrSameClient = errors.New("products belong to the same client")

// ErrInvalidDestination indicates a third party payment whose destination
// product is not a creditor-facing (active) product.
var ErrInvalidDestination = errors.New("destination product is not an active product")

// ErrDuplicate indicates that an idempotency key already produced a
// persisted movement pair.
var ErrDuplicate = errors.New("transfer already processed")

// ErrRemoteUnavailable indicates a timeout or connection failure while
// calling the product, client or wallet service.
var ErrRemoteUnavailable = errors.New("remote service unavailable")

// ErrInternal indicates an uncategorized failure; the cause is wrapped.
var ErrInternal = errors.New("internal error")
