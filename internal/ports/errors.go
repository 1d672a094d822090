package ports

import "errors"

// ErrSessionNotFound is returned by SessionStore.Get when no live session exists for the ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrMalformedRecord is returned by stores when persisted data cannot be decoded.
var ErrMalformedRecord = errors.New("malformed record")
