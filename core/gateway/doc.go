// Package gateway provides the client for the remote policy store's
// list and rule API.
//
// It wraps the account-scoped HTTP endpoints behind a small Client
// interface so the reconciliation engine can be tested against mocks
// (as seen in core/gateway/mocks).
//
// # Client Interface
//
// The Client interface carries the full CRUD surface for domain lists
// and rules: enumeration, creation, item retrieval, full updates,
// field patches and deletion.
//
// # Error Classification
//
// Every failure is returned as an *Error carrying a Kind (timeout,
// ratelimit, validation, auth or api), the endpoint and the status,
// so callers can decide between refusing, retrying and surfacing.
//
// # Usage
//
//	client, err := gateway.NewClient(config)
//	lists, err := client.Lists(ctx)
package gateway
