// Package client contains the client-side transport for todoctl.
//
// # Overview
//
// GRPCClient wraps the typed api.Client with:
//  1. An interceptor that attaches the access token to every call and,
//     when the server reports an expired token, exchanges the refresh
//     token once and retries the call.
//  2. A callback (see WithTokenSink) fired whenever a new token pair is
//     obtained, so the caller can persist it.
//  3. Mapping of gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Callers match results with errors.Is against ErrUnavailable,
// ErrUnauthorized, ErrNotFound and ErrRejected. ErrRejected carries the
// server's message (validation failures, duplicate slugs, categories still
// in use).
package client
