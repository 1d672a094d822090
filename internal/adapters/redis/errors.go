package redis

import "github.com/farmlytic/farmlytic-web/internal/ports"

// ErrNotFound is returned when a session is not found.
var ErrNotFound = ports.ErrSessionNotFound

// ErrMalformedRecord is returned when a stored record cannot be decoded.
var ErrMalformedRecord = ports.ErrMalformedRecord
