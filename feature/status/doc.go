// Package status implements the read-only account status feature.
//
// It exposes the gateway account's lists and rules over HTTP, together
// with the update classification the `core/reconcile` engine computes
// by refetching each managed rule's stored source. Nothing in this
// feature mutates the account; the sync workflows run through the CLI.
//
// # Components
//
//   - Service: Enumerates account state and delegates classification
//     to the reconcile orchestrator.
//   - Handler: Exposes the HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /lists : Every list on the account, flagged when managed.
//   - GET /rules : Every rule with its decoded provenance.
//   - GET /rules/status : Update classification for every managed rule.
//   - GET /rules/:id/status : Update classification for one rule.
package status
