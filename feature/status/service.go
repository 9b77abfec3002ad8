package status

import (
	"context"

	"gateway-manager/core/gateway"
	"gateway-manager/core/metadata"
	"gateway-manager/core/reconcile"

	"go.uber.org/zap"
)

// Service exposes read-only views over the account's managed state.
type Service struct {
	client       gateway.Client
	orchestrator *reconcile.Orchestrator
	logger       *zap.Logger
}

// NewService creates a new status service.
func NewService(client gateway.Client, orchestrator *reconcile.Orchestrator, logger *zap.Logger) *Service {
	return &Service{
		client:       client,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// ListSummary is one account list with a managed flag.
type ListSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Managed bool   `json:"managed"`
}

// RuleSummary is one account rule with its decoded provenance.
type RuleSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Enabled    bool   `json:"enabled"`
	Managed    bool   `json:"managed"`
	SourceURL  string `json:"source_url,omitempty"`
	ListPrefix string `json:"list_prefix,omitempty"`
}

// Lists returns every account list, flagging the ones this tool owns.
func (s *Service) Lists(ctx context.Context) ([]ListSummary, error) {
	lists, err := s.client.Lists(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ListSummary, 0, len(lists))
	for _, l := range lists {
		summaries = append(summaries, ListSummary{
			ID:      l.ID,
			Name:    l.Name,
			Count:   l.Count,
			Managed: l.Description == reconcile.BaseDescription,
		})
	}
	return summaries, nil
}

// Rules returns every account rule with its decoded provenance.
func (s *Service) Rules(ctx context.Context) ([]RuleSummary, error) {
	rules, err := s.client.Rules(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]RuleSummary, 0, len(rules))
	for _, r := range rules {
		_, md, present := metadata.Decode(r.Description)
		summaries = append(summaries, RuleSummary{
			ID:         r.ID,
			Name:       r.Name,
			Enabled:    r.Enabled,
			Managed:    present,
			SourceURL:  md.SourceURL,
			ListPrefix: md.ListPrefix,
		})
	}
	return summaries, nil
}

// RuleStatus classifies one rule's update status against its source.
func (s *Service) RuleStatus(ctx context.Context, ruleID string) (reconcile.RuleReport, error) {
	return s.orchestrator.CheckRule(ctx, ruleID)
}

// Sweep classifies every managed rule.
func (s *Service) Sweep(ctx context.Context) ([]reconcile.RuleReport, error) {
	return s.orchestrator.Sweep(ctx)
}
