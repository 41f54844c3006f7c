// Package session holds the process-wide login state: the current identity
// and the bearer credential. Only the credential is persisted, through a
// securestore.Store; the identity lives in memory.
package session
