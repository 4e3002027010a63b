package services

import "errors"

var (
	// ErrNotFound is returned by nutrition providers that know nothing about a query.
	ErrNotFound = errors.New("nutrition not found")

	ErrMissingPeriod = errors.New("report period is required")
	ErrUnknownPeriod = errors.New("unknown report period")

	// ErrNoPending means the user has no photo waiting for confirmation.
	ErrNoPending = errors.New("no pending confirmation")
	// ErrNothingDetected means the pending photo carries no usable labels.
	ErrNothingDetected = errors.New("nothing detected on photo")
)
