// Package reconcile drives the synchronization workflows that keep the
// gateway account aligned with an external block list source.
//
// # Workflows
//
//   - Apply: first-time creation. Conflict and quota checks run before
//     the first remote write, so a refused apply never mutates the
//     account. Lists are created in partition order, then a single
//     rule referencing all of them.
//   - Update: replacement from a managed rule's stored source. The old
//     rule is deleted first so two rules with the same name never
//     coexist, then the old lists, then the new configuration is
//     created like an apply.
//   - Delete: removes a managed rule and the lists its traffic
//     expression references.
//   - Sweep / CheckRule: read-only classification of whether a managed
//     rule's source has changed since the rule was built.
//
// # Failure Handling
//
// A failure or cancellation striking after at least one remote object
// was created triggers best-effort cleanup of everything this job
// created, never of pre-existing objects. Cleanup failures are
// reported back as unremoved ids for manual reconciliation. The update
// workflow has one irrecoverable window: when creation fails after the
// old rule is already gone, the error is a ReplacedRuleLostError so
// the operator knows the previous configuration cannot come back.
//
// # Cancellation
//
// Cancellation is cooperative through the workflow context. It is
// observed before every remote write, inside every rate-limit wait and
// by the gateway client's own calls.
package reconcile
