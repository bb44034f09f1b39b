package domain

import "errors"

var (
	// ErrAlgorithmNotFound is returned when an algorithm ID cannot be found in the store.
	ErrAlgorithmNotFound = errors.New("algorithm not found")

	// ErrInvalidID is returned when a record is saved or addressed without a local ID.
	ErrInvalidID = errors.New("invalid algorithm id")

	// ErrLockAcquire is returned when a distributed lock could not be acquired.
	ErrLockAcquire = errors.New("failed to acquire lock")

	// ErrReadOnly is returned when an edit targets an algorithm the caller does not own.
	ErrReadOnly = errors.New("algorithm is read-only")

	// ErrNoRemote is returned by synchronization calls when no remote is configured.
	ErrNoRemote = errors.New("no remote configured")
)
