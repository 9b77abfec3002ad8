package reconcile

import (
	"fmt"
	"strings"
)

// State identifies where in a workflow a job currently is.
type State int

const (
	// StateIdle means no workflow has started yet.
	StateIdle State = iota
	// StatePreflight checks naming conflicts before any mutation.
	StatePreflight
	// StateFetching retrieves block list content from the source.
	StateFetching
	// StateParsing extracts the canonical domain set.
	StateParsing
	// StateQuotaCheck verifies the account caps before any mutation.
	StateQuotaCheck
	// StateDeletingOld tears down the previous rule and lists on the
	// update path.
	StateDeletingOld
	// StateCreatingLists creates one gateway list per partition.
	StateCreatingLists
	// StateCreatingRule creates the rule referencing the new lists.
	StateCreatingRule
	// StateCleaningUp removes partially created objects after a
	// failure or cancellation.
	StateCleaningUp
	// StateDone is the successful terminal state.
	StateDone
	// StateCancelled is the terminal state after a user abort.
	StateCancelled
	// StateFailed is the terminal state after an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreflight:
		return "preflight"
	case StateFetching:
		return "fetching"
	case StateParsing:
		return "parsing"
	case StateQuotaCheck:
		return "quota_check"
	case StateDeletingOld:
		return "deleting_old"
	case StateCreatingLists:
		return "creating_lists"
	case StateCreatingRule:
		return "creating_rule"
	case StateCleaningUp:
		return "cleaning_up"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event is a progress notification emitted while a workflow runs.
// Consumers drain events from the sink channel; the engine never
// blocks on a full sink.
type Event struct {
	// State is the workflow state the job just entered.
	State State
	// Rule is the target rule name.
	Rule string
	// Message is a human-readable progress line.
	Message string
	// Step and Total report list-creation progress, zero otherwise.
	Step  int
	Total int
}

// Job is the transient state of one apply, update or delete run. It
// records every remote object created so far so cleanup can enumerate
// exactly what this run owns.
type Job struct {
	// Prefix is the list-name prefix this job manages.
	Prefix string
	// RuleName is the target rule name.
	RuleName string
	// CreatedListIDs grows as list creation proceeds.
	CreatedListIDs []string
	// CreatedRuleID is set once the rule exists.
	CreatedRuleID string
	// Domains is the size of the canonical domain set.
	Domains int
}

// ValidationError reports bad or empty input to a workflow. It is
// raised before any remote mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ConflictError reports a naming collision with existing remote
// entities. It is raised during preflight, before any remote mutation.
type ConflictError struct {
	// Entity is "list" or "rule".
	Entity string
	// Name is the conflicting remote name.
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s %q already exists", e.Entity, e.Name)
}

// QuotaExceededError reports that the operation would push the account
// past its list cap. It is raised before any remote mutation.
type QuotaExceededError struct {
	Current int
	Needed  int
	Cap     int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %d existing lists plus %d new would pass the cap of %d", e.Current, e.Needed, e.Cap)
}

// PartialFailureError reports a failure or cancellation that struck
// after at least one remote object was created. Cleanup has already
// run; Unremoved lists the ids it could not delete, which the operator
// must remove by hand.
type PartialFailureError struct {
	Cause          error
	CreatedListIDs []string
	CreatedRuleID  string
	Unremoved      []string
}

func (e *PartialFailureError) Error() string {
	msg := fmt.Sprintf("partial failure after creating %d lists", len(e.CreatedListIDs))
	if e.CreatedRuleID != "" {
		msg += " and 1 rule"
	}
	if len(e.Unremoved) > 0 {
		msg += fmt.Sprintf("; cleanup could not remove: %s", strings.Join(e.Unremoved, ", "))
	}
	return msg + ": " + e.Cause.Error()
}

func (e *PartialFailureError) Unwrap() error { return e.Cause }

// ReplacedRuleLostError reports the update workflow's irrecoverable
// window: the old rule was already deleted when the new configuration
// failed to complete. The old configuration cannot be restored.
type ReplacedRuleLostError struct {
	RuleName string
	Cause    error
}

func (e *ReplacedRuleLostError) Error() string {
	return fmt.Sprintf("rule %q: old configuration removed, new configuration failed to complete: %v", e.RuleName, e.Cause)
}

func (e *ReplacedRuleLostError) Unwrap() error { return e.Cause }
