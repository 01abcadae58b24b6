package domain

import "errors"

// ErrEntryNotFound is returned when no entry matches the requested ID.
var ErrEntryNotFound = errors.New("entry not found")

// ErrCollectionNotFound is returned when a collection name is not configured.
var ErrCollectionNotFound = errors.New("collection not found")

// ErrCounterNotFound is returned when a counter instance is not mounted.
var ErrCounterNotFound = errors.New("counter not found")
