package reconcile

import (
	"context"

	"go.uber.org/zap"

	"gateway-manager/core/metadata"
)

// UpdateStatus classifies whether a managed rule's source has changed
// since the rule was built.
type UpdateStatus string

const (
	// StatusNoSourceURL means the rule carries no refreshable source.
	StatusNoSourceURL UpdateStatus = "No source URL"
	// StatusNoHashData means the rule has a source but no stored
	// fingerprint to compare against.
	StatusNoHashData UpdateStatus = "No hash data"
	// StatusCheckFailed means the source could not be fetched.
	StatusCheckFailed UpdateStatus = "Check failed"
	// StatusUpToDate means the source content is unchanged.
	StatusUpToDate UpdateStatus = "Up to date"
	// StatusUpdateAvailable means the source content has changed.
	StatusUpdateAvailable UpdateStatus = "Update available"
)

// RuleReport is the outcome of a status check for one managed rule.
type RuleReport struct {
	// RuleID is the gateway rule identifier.
	RuleID string `json:"rule_id"`
	// RuleName is the rule name.
	RuleName string `json:"rule_name"`
	// SourceURL is the stored source, empty when absent.
	SourceURL string `json:"source_url,omitempty"`
	// ListPrefix is the stored list prefix, empty when absent.
	ListPrefix string `json:"list_prefix,omitempty"`
	// Status is the update classification.
	Status UpdateStatus `json:"status"`
}

// CheckRule classifies a single rule's update status by refetching its
// stored source and comparing fingerprints. It never mutates remote
// state.
func (o *Orchestrator) CheckRule(ctx context.Context, ruleID string) (RuleReport, error) {
	rule, err := o.client.Rule(ctx, ruleID)
	if err != nil {
		return RuleReport{}, err
	}
	_, md, _ := metadata.Decode(rule.Description)
	return o.classify(ctx, rule.ID, rule.Name, md), nil
}

// Sweep classifies every managed rule on the account. Rules without a
// metadata marker are skipped, they belong to someone else.
func (o *Orchestrator) Sweep(ctx context.Context) ([]RuleReport, error) {
	rules, err := o.client.Rules(ctx)
	if err != nil {
		return nil, err
	}

	var reports []RuleReport
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		_, md, present := metadata.Decode(rule.Description)
		if !present {
			continue
		}
		reports = append(reports, o.classify(ctx, rule.ID, rule.Name, md))
	}
	return reports, nil
}

func (o *Orchestrator) classify(ctx context.Context, ruleID, ruleName string, md metadata.Metadata) RuleReport {
	report := RuleReport{
		RuleID:     ruleID,
		RuleName:   ruleName,
		SourceURL:  md.SourceURL,
		ListPrefix: md.ListPrefix,
	}

	switch {
	case md.SourceURL == "":
		report.Status = StatusNoSourceURL
		return report
	case md.Fingerprint == "":
		report.Status = StatusNoHashData
		return report
	}

	content, err := o.fetcher.Fetch(ctx, md.SourceURL)
	if err != nil {
		o.log.Warn("status check fetch failed",
			zap.String("rule", ruleName),
			zap.String("source", md.SourceURL),
			zap.Error(err))
		report.Status = StatusCheckFailed
		return report
	}

	if metadata.Fingerprint(content.Data) == md.Fingerprint {
		report.Status = StatusUpToDate
	} else {
		report.Status = StatusUpdateAvailable
	}
	return report
}
