// Package common contains shared constants and sentinel errors used across
// gymdesk components.
package common

const (
	// SessionTokenKey is the fixed secure-store key under which the bearer
	// credential is persisted.
	SessionTokenKey = "session_token"

	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the credential in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client log lines with backend requests.
	RequestIDHeaderName = "X-Request-ID"

	// SessionIDHeaderName carries the OAuth session id to /auth/session-data.
	SessionIDHeaderName = "X-Session-ID"
)
