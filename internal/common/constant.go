// Package common contains shared constants and sentinel errors used across
// todokeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultRole is assigned to every newly created user.
const DefaultRole = "user"
