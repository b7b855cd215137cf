// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// RequestIDHeaderName is the gRPC metadata key carrying a caller supplied
// request id. The server generates one when it is absent.
const RequestIDHeaderName = "x-request-id"

// Account roles. DefaultRole is assigned to accounts registered without an
// explicit role and to every public registration.
const (
	DefaultRole = "user"
	AdminRole   = "admin"
)
