// Package api is the single gateway through which the client talks to the
// gym backend.
//
// Every request reads the bearer credential from the secure store at send
// time, so a credential rotated mid-session is picked up by the very next
// call. A 401 response deletes the persisted credential before the error is
// returned; the in-memory session is left for the caller to reconcile.
//
// Failures are always *Error values of one of four kinds (see Kind), so
// callers branch with errors.Is against ErrAuthExpired, ErrValidation,
// ErrRejected and ErrNetwork instead of inspecting transport details.
package api
