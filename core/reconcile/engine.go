package reconcile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gateway-manager/core/extract"
	"gateway-manager/core/gateway"
	"gateway-manager/core/metadata"
	"gateway-manager/core/metrics"
	"gateway-manager/core/partition"
	"gateway-manager/core/source"
)

// BaseDescription marks lists and rules owned by this tool.
const BaseDescription = "Managed by gateway-manager"

// createDelay paces remote writes to stay under the store's rate
// limits.
const createDelay = 700 * time.Millisecond

// uuidRe finds candidate list ids inside a rule's traffic expression.
// Matches are re-validated with uuid.Parse before use.
var uuidRe = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// Orchestrator drives the apply, update and delete workflows against
// the gateway account.
type Orchestrator struct {
	client  gateway.Client
	fetcher source.Fetcher
	log     *zap.Logger
	limiter *rate.Limiter
	events  chan<- Event
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEventSink directs progress events into ch. The engine drops
// events when ch is full rather than blocking a workflow on a slow
// consumer.
func WithEventSink(ch chan<- Event) Option {
	return func(o *Orchestrator) { o.events = ch }
}

// WithPacing overrides the delay between remote writes. Tests use this
// to avoid real sleeps.
func WithPacing(d time.Duration) Option {
	return func(o *Orchestrator) { o.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// NewOrchestrator creates an Orchestrator using the given gateway
// client and source fetcher.
func NewOrchestrator(client gateway.Client, fetcher source.Fetcher, log *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:  client,
		fetcher: fetcher,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(createDelay), 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) emit(ev Event) {
	if o.events == nil {
		return
	}
	select {
	case o.events <- ev:
	default:
	}
}

// TrafficExpression builds the rule expression matching DNS queries
// against every given list id.
func TrafficExpression(listIDs []string) string {
	clauses := make([]string, 0, len(listIDs))
	for _, id := range listIDs {
		clauses = append(clauses, fmt.Sprintf("any(dns.domains[*] in $%s)", id))
	}
	return strings.Join(clauses, " or ")
}

// ListIDsFromTraffic extracts the list ids a rule's traffic expression
// references.
func ListIDsFromTraffic(traffic string) []string {
	var ids []string
	for _, m := range uuidRe.FindAllString(traffic, -1) {
		if _, err := uuid.Parse(m); err == nil {
			ids = append(ids, strings.ToLower(m))
		}
	}
	return ids
}

// Apply runs the first-time creation workflow: preflight conflict
// checks, fetch, parse, quota check, then list and rule creation. All
// local checks run before the first remote write, so a refused apply
// leaves the account untouched.
func (o *Orchestrator) Apply(ctx context.Context, location, prefix, ruleName string) (*Job, error) {
	job := &Job{Prefix: prefix, RuleName: ruleName}
	log := o.log.With(zap.String("rule", ruleName), zap.String("prefix", prefix))

	o.emit(Event{State: StatePreflight, Rule: ruleName, Message: "checking for conflicts"})
	lists, err := o.client.Lists(ctx)
	if err != nil {
		return job, fmt.Errorf("preflight: %w", err)
	}
	for _, l := range lists {
		if strings.HasPrefix(l.Name, prefix) {
			return job, &ConflictError{Entity: "list", Name: l.Name}
		}
	}
	rules, err := o.client.Rules(ctx)
	if err != nil {
		return job, fmt.Errorf("preflight: %w", err)
	}
	for _, r := range rules {
		if r.Name == ruleName {
			return job, &ConflictError{Entity: "rule", Name: r.Name}
		}
	}

	o.emit(Event{State: StateFetching, Rule: ruleName, Message: "fetching " + location})
	content, err := o.fetcher.Fetch(ctx, location)
	if err != nil {
		return job, fmt.Errorf("fetch: %w", err)
	}

	o.emit(Event{State: StateParsing, Rule: ruleName})
	domains, err := extract.Domains(string(content.Data))
	if err != nil {
		if errors.Is(err, extract.ErrNoDomains) {
			return job, &ValidationError{Reason: "source contains no valid domains"}
		}
		return job, err
	}
	job.Domains = len(domains)

	o.emit(Event{State: StateQuotaCheck, Rule: ruleName})
	partitions := partition.Split(domains, partition.MaxDomainsPerList)
	if partition.WouldExceedAccountCap(len(lists), len(partitions), partition.MaxListsPerAccount) {
		return job, &QuotaExceededError{Current: len(lists), Needed: len(partitions), Cap: partition.MaxListsPerAccount}
	}

	log.Info("applying block list",
		zap.Int("domains", len(domains)),
		zap.Int("partitions", len(partitions)))

	if err := o.createListsAndRule(ctx, job, partitions, content); err != nil {
		metrics.SyncsFailed.Inc()
		return job, o.failPartial(job, err)
	}

	metrics.SyncsSucceeded.Inc()
	o.emit(Event{State: StateDone, Rule: ruleName, Message: fmt.Sprintf("created %d lists and rule %s", len(job.CreatedListIDs), job.CreatedRuleID)})
	log.Info("apply complete",
		zap.Int("lists", len(job.CreatedListIDs)),
		zap.String("rule_id", job.CreatedRuleID))
	return job, nil
}

// Update replaces an existing managed rule's configuration from its
// stored source. The rule must carry decodable provenance metadata
// with both a source URL and a list prefix.
func (o *Orchestrator) Update(ctx context.Context, ruleID string) (*Job, error) {
	rule, err := o.client.Rule(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("load rule: %w", err)
	}
	log := o.log.With(zap.String("rule", rule.Name), zap.String("rule_id", rule.ID))

	base, md, present := metadata.Decode(rule.Description)
	if !present || md.SourceURL == "" || md.ListPrefix == "" {
		return nil, &ValidationError{Reason: fmt.Sprintf("rule %q is not managed by this tool", rule.Name)}
	}
	job := &Job{Prefix: md.ListPrefix, RuleName: rule.Name}

	o.emit(Event{State: StateFetching, Rule: rule.Name, Message: "fetching " + md.SourceURL})
	content, err := o.fetcher.Fetch(ctx, md.SourceURL)
	if err != nil {
		return job, fmt.Errorf("fetch: %w", err)
	}

	o.emit(Event{State: StateParsing, Rule: rule.Name})
	domains, err := extract.Domains(string(content.Data))
	if err != nil {
		if errors.Is(err, extract.ErrNoDomains) {
			return job, &ValidationError{Reason: "source contains no valid domains"}
		}
		return job, err
	}
	job.Domains = len(domains)

	oldListIDs := ListIDsFromTraffic(rule.Traffic)

	o.emit(Event{State: StateQuotaCheck, Rule: rule.Name})
	lists, err := o.client.Lists(ctx)
	if err != nil {
		return job, fmt.Errorf("quota check: %w", err)
	}
	partitions := partition.Split(domains, partition.MaxDomainsPerList)
	// The old lists will be gone before the new ones are created, so
	// the cap is checked against the post-teardown count.
	remaining := len(lists) - len(oldListIDs)
	if remaining < 0 {
		remaining = 0
	}
	if partition.WouldExceedAccountCap(remaining, len(partitions), partition.MaxListsPerAccount) {
		return job, &QuotaExceededError{Current: remaining, Needed: len(partitions), Cap: partition.MaxListsPerAccount}
	}

	log.Info("updating block list",
		zap.Int("domains", len(domains)),
		zap.Int("partitions", len(partitions)),
		zap.Int("old_lists", len(oldListIDs)))

	// Delete the old rule first so two rules with the same name never
	// coexist. From here on the old configuration cannot be restored.
	o.emit(Event{State: StateDeletingOld, Rule: rule.Name, Message: "removing previous configuration"})
	if err := o.limiter.Wait(ctx); err != nil {
		return job, err
	}
	if err := o.client.DeleteRule(ctx, rule.ID); err != nil {
		return job, fmt.Errorf("delete old rule: %w", err)
	}
	metrics.RulesDeleted.Inc()

	// Orphaned old lists are reported, not fatal.
	for _, id := range oldListIDs {
		if err := o.limiter.Wait(ctx); err != nil {
			return job, &ReplacedRuleLostError{RuleName: rule.Name, Cause: err}
		}
		if err := o.client.DeleteList(ctx, id); err != nil {
			log.Warn("could not delete old list", zap.String("list_id", id), zap.Error(err))
			continue
		}
		metrics.ListsDeleted.Inc()
	}

	// Carry the operator's free text forward, refreshed metadata gets
	// re-encoded by the create step.
	content.URL = md.SourceURL
	if err := o.createListsAndRuleWithBase(ctx, job, partitions, content, base); err != nil {
		metrics.SyncsFailed.Inc()
		return job, &ReplacedRuleLostError{RuleName: rule.Name, Cause: o.failPartial(job, err)}
	}

	metrics.SyncsSucceeded.Inc()
	o.emit(Event{State: StateDone, Rule: rule.Name, Message: fmt.Sprintf("replaced with %d lists and rule %s", len(job.CreatedListIDs), job.CreatedRuleID)})
	log.Info("update complete",
		zap.Int("lists", len(job.CreatedListIDs)),
		zap.String("rule_id", job.CreatedRuleID))
	return job, nil
}

// Delete removes a managed rule and every list its traffic expression
// references. List deletions that fail are returned as unremoved ids
// rather than aborting.
func (o *Orchestrator) Delete(ctx context.Context, ruleID string) (unremoved []string, err error) {
	rule, err := o.client.Rule(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("load rule: %w", err)
	}
	log := o.log.With(zap.String("rule", rule.Name), zap.String("rule_id", rule.ID))
	listIDs := ListIDsFromTraffic(rule.Traffic)

	o.emit(Event{State: StateDeletingOld, Rule: rule.Name, Message: "deleting rule"})
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if err := o.client.DeleteRule(ctx, rule.ID); err != nil {
		return nil, fmt.Errorf("delete rule: %w", err)
	}
	metrics.RulesDeleted.Inc()

	for _, id := range listIDs {
		if err := o.limiter.Wait(ctx); err != nil {
			unremoved = append(unremoved, id)
			continue
		}
		if err := o.client.DeleteList(ctx, id); err != nil {
			log.Warn("could not delete list", zap.String("list_id", id), zap.Error(err))
			metrics.CleanupFailures.Inc()
			unremoved = append(unremoved, id)
			continue
		}
		metrics.ListsDeleted.Inc()
	}

	o.emit(Event{State: StateDone, Rule: rule.Name, Message: "deleted"})
	log.Info("delete complete",
		zap.Int("lists", len(listIDs)-len(unremoved)),
		zap.Int("unremoved", len(unremoved)))
	return unremoved, nil
}

func (o *Orchestrator) createListsAndRule(ctx context.Context, job *Job, partitions [][]string, content source.Content) error {
	return o.createListsAndRuleWithBase(ctx, job, partitions, content, BaseDescription)
}

// createListsAndRuleWithBase creates one list per partition in order,
// then the rule referencing all of them. Every created id is recorded
// on the job before the next remote call so cleanup always sees the
// full set.
func (o *Orchestrator) createListsAndRuleWithBase(ctx context.Context, job *Job, partitions [][]string, content source.Content, base string) error {
	total := len(partitions)
	for i, p := range partitions {
		if err := o.limiter.Wait(ctx); err != nil {
			return err
		}
		name := partition.ListName(job.Prefix, i+1, total)
		o.emit(Event{State: StateCreatingLists, Rule: job.RuleName, Message: "creating " + name, Step: i + 1, Total: total})

		created, err := o.client.CreateList(ctx, name, BaseDescription, p)
		if err != nil {
			return fmt.Errorf("create list %s: %w", name, err)
		}
		job.CreatedListIDs = append(job.CreatedListIDs, created.ID)
		metrics.ListsCreated.Inc()
	}

	md := metadata.Metadata{
		SourceURL:   content.URL,
		ListPrefix:  job.Prefix,
		Fingerprint: metadata.Fingerprint(content.Data),
	}
	description, err := metadata.Encode(base, md)
	if err != nil {
		if !errors.Is(err, metadata.ErrMetadataTooLong) {
			return err
		}
		o.log.Warn("description too long to carry metadata, rule will not be updatable",
			zap.String("rule", job.RuleName))
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return err
	}
	o.emit(Event{State: StateCreatingRule, Rule: job.RuleName})
	rule, err := o.client.CreateRule(ctx, gateway.Rule{
		Name:        job.RuleName,
		Description: description,
		Enabled:     true,
		Action:      "block",
		Filters:     []string{"dns"},
		Traffic:     TrafficExpression(job.CreatedListIDs),
	})
	if err != nil {
		return fmt.Errorf("create rule %s: %w", job.RuleName, err)
	}
	job.CreatedRuleID = rule.ID
	metrics.RulesCreated.Inc()
	return nil
}

// failPartial classifies a mid-workflow error. When nothing was
// created yet the cause passes through untouched; otherwise cleanup
// runs and the result is a PartialFailureError enumerating what this
// job created and what could not be removed.
func (o *Orchestrator) failPartial(job *Job, cause error) error {
	if len(job.CreatedListIDs) == 0 && job.CreatedRuleID == "" {
		return cause
	}
	o.emit(Event{State: StateCleaningUp, Rule: job.RuleName})
	unremoved := o.cleanup(job)
	state := StateFailed
	if errors.Is(cause, context.Canceled) {
		state = StateCancelled
	}
	o.emit(Event{State: state, Rule: job.RuleName, Message: cause.Error()})
	return &PartialFailureError{
		Cause:          cause,
		CreatedListIDs: job.CreatedListIDs,
		CreatedRuleID:  job.CreatedRuleID,
		Unremoved:      unremoved,
	}
}
