package model

import "errors"

var (
	// ErrParse marks a time phrase that could not be turned into an instant.
	ErrParse = errors.New("unparseable time")
	// ErrStorage marks a database or key-value store failure.
	ErrStorage = errors.New("storage error")
	// ErrConversion marks a stored identifier that no longer round-trips.
	ErrConversion = errors.New("conversion error")
	// ErrConfiguration marks invalid startup configuration.
	ErrConfiguration = errors.New("configuration error")
)
