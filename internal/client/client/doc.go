// Package client talks to the Pass-Manager REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     accounts, the session window and vault entries.
//  2. A concrete HTTP implementation (see HTTPClient) that keeps the bearer
//     token of the last successful register or login and attaches it to
//     every request.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the server message.
// A 401 matches ErrUnauthorized and transport failures match ErrUnavailable,
// both via errors.Is.
//
// All operations accept context.Context and honor cancellation.
package client
