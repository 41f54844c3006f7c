// Package models defines the JSON projections of backend entities used by
// the gymdesk client. None of them are persisted locally.
//
// Timestamps are kept as the strings the backend sends; the backend mixes
// naive and zoned ISO-8601 forms and the client only ever displays them.
package models
