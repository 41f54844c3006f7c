// Package securestore is the encrypted local key-value store that holds the
// session credential between runs.
//
// Values are sealed with AES-GCM under a key derived (argon2id) from a
// device secret and a per-store random salt. Each value is bound to its
// storage key as additional data, so rows cannot be swapped. The sqlite
// schema is managed by goose migrations embedded in the binary.
package securestore
