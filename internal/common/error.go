// Package common defines shared constants and sentinel errors used across
// the client layers of gymdesk. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Secure store errors.
	ErrStoreLocked  = errors.New("secure store is locked")
	ErrCorruptValue = errors.New("secure value cannot be decrypted")

	// Session-level errors.
	ErrNotAuthenticated = errors.New("not authenticated")
)
