// Package apitest runs an in-process imitation of the gym backend for
// tests. It reproduces the backend's response shapes, its 401 details
// ("Not authenticated", "Invalid session", "Session expired") and its
// validation error lists, and issues HS256-signed session tokens.
//
// State is in memory and per Backend; seed it with AddUser, AddGym and
// Enroll, and inspect traffic with Requests and Hits.
package apitest
