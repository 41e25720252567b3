// Package client is the REST transport of vcdash.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     authentication (Login, Signup, Verify, TOTP enrollment, password reset)
//     and the company endpoints (roster, per-period snapshot, metric history).
//  2. A concrete HTTP implementation (see HTTPClient) that injects the bearer
//     token from a TokenSource, tags each request with an X-Request-ID, paces
//     requests with a token bucket, traces them through otelhttp and maps
//     responses to sentinel errors.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrPendingApproval and ErrNoToken. Any
// other non-2xx response is an *APIError carrying the status code and the
// server message.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation; a cancelled request reports
// ErrUnavailable wrapping the context error.
package client
