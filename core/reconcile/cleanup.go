package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gateway-manager/core/metrics"
)

// cleanupTimeout bounds the compensating teardown of a failed job.
const cleanupTimeout = 5 * time.Minute

// cleanup deletes everything the job created, best effort. It runs on
// its own context because the job's context may already be cancelled,
// and cancellation must not leave half-created objects behind when the
// store is still reachable. Returns the ids that could not be removed.
func (o *Orchestrator) cleanup(job *Job) []string {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	log := o.log.With(zap.String("rule", job.RuleName))
	log.Info("cleaning up partial state",
		zap.Int("lists", len(job.CreatedListIDs)),
		zap.Bool("rule_created", job.CreatedRuleID != ""))

	var unremoved []string

	if job.CreatedRuleID != "" {
		if err := o.client.DeleteRule(ctx, job.CreatedRuleID); err != nil {
			log.Warn("cleanup could not delete rule", zap.String("rule_id", job.CreatedRuleID), zap.Error(err))
			metrics.CleanupFailures.Inc()
			unremoved = append(unremoved, job.CreatedRuleID)
		} else {
			metrics.RulesDeleted.Inc()
		}
	}

	for _, id := range job.CreatedListIDs {
		if err := o.limiter.Wait(ctx); err != nil {
			unremoved = append(unremoved, id)
			continue
		}
		if err := o.client.DeleteList(ctx, id); err != nil {
			log.Warn("cleanup could not delete list", zap.String("list_id", id), zap.Error(err))
			metrics.CleanupFailures.Inc()
			unremoved = append(unremoved, id)
			continue
		}
		metrics.ListsDeleted.Inc()
	}

	return unremoved
}
