// Package services defines the business logic for amount allocation, payment
// sessions, and notification matching. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrProductNotFound indicates that the requested item does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidPriceRange is returned when a price range is not two positive
	// integers with min <= max.
	ErrInvalidPriceRange = errors.New("price range must be positive integers with min <= max")

	// ErrMissingBuyerRef is returned when a session-creation request carries
	// no buyer identifier.
	ErrMissingBuyerRef = errors.New("buyer reference is required")

	// ErrMissingItemRef is returned when a session-creation request carries
	// no item identifier.
	ErrMissingItemRef = errors.New("item reference is required")

	// ErrUnknownSetting is returned when an operator reads or writes a
	// setting key that has no registered default.
	ErrUnknownSetting = errors.New("unknown setting key")
)
