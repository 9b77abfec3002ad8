package cmd

import (
	"errors"
	"fmt"

	"gateway-manager/core/config"
	"gateway-manager/core/gateway"
	"gateway-manager/core/logger"
	"gateway-manager/core/reconcile"
	"gateway-manager/core/source"

	"go.uber.org/zap"
)

// runtime bundles the collaborators every workflow command needs.
type runtime struct {
	cfg          *config.Config
	log          *zap.Logger
	client       gateway.Client
	fetcher      source.Fetcher
	orchestrator *reconcile.Orchestrator
	events       chan reconcile.Event
	done         chan struct{}
}

// newRuntime loads configuration and wires the gateway client, source
// fetcher and orchestrator. The returned runtime drains progress
// events into the log until closeRuntime is called.
func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := gateway.NewClient(cfg.Gateway)
	if err != nil {
		return nil, err
	}
	fetcher := source.NewFetcher(cfg.Source)

	events := make(chan reconcile.Event, 64)
	rt := &runtime{
		cfg:     cfg,
		log:     l,
		client:  client,
		fetcher: fetcher,
		events:  events,
		done:    make(chan struct{}),
	}
	rt.orchestrator = reconcile.NewOrchestrator(client, fetcher, l, reconcile.WithEventSink(events))

	go func() {
		defer close(rt.done)
		for ev := range events {
			fields := []zap.Field{zap.String("state", ev.State.String())}
			if ev.Rule != "" {
				fields = append(fields, zap.String("rule", ev.Rule))
			}
			if ev.Total > 0 {
				fields = append(fields, zap.Int("step", ev.Step), zap.Int("total", ev.Total))
			}
			if ev.Message != "" {
				fields = append(fields, zap.String("detail", ev.Message))
			}
			l.Info("Progress", fields...)
		}
	}()

	return rt, nil
}

// close stops the event drain and flushes the logger.
func (rt *runtime) close() {
	close(rt.events)
	<-rt.done
	_ = rt.log.Sync()
}

// reportOutcome logs what remote state an error left behind so the
// operator always knows what exists afterward.
func reportOutcome(l *zap.Logger, err error) error {
	var partial *reconcile.PartialFailureError
	var lost *reconcile.ReplacedRuleLostError
	switch {
	case errors.As(err, &lost):
		l.Error("Old configuration removed, new configuration failed to complete",
			zap.String("rule", lost.RuleName),
			zap.Error(lost.Cause))
	case errors.As(err, &partial):
		l.Error("Workflow failed after partial creation",
			zap.Strings("created_lists", partial.CreatedListIDs),
			zap.String("created_rule", partial.CreatedRuleID),
			zap.Strings("unremoved", partial.Unremoved),
			zap.Error(partial.Cause))
	default:
		l.Error("Workflow failed, nothing was created", zap.Error(err))
	}
	return err
}
