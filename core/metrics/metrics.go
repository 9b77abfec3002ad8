// Package metrics exposes prometheus counters for reconciliation
// activity. Counters are registered once via Init and served through
// the HTTP surface's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ListsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "lists_created_total",
		Help:      "Total gateway lists created.",
	})
	ListsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "lists_deleted_total",
		Help:      "Total gateway lists deleted.",
	})
	RulesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "rules_created_total",
		Help:      "Total gateway rules created.",
	})
	RulesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "rules_deleted_total",
		Help:      "Total gateway rules deleted.",
	})
	SyncsSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "syncs_succeeded_total",
		Help:      "Total apply and update workflows that completed.",
	})
	SyncsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "syncs_failed_total",
		Help:      "Total apply and update workflows that failed or were cancelled.",
	})
	CleanupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_manager",
		Name:      "cleanup_failures_total",
		Help:      "Total created objects that could not be removed during cleanup.",
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(
		ListsCreated, ListsDeleted,
		RulesCreated, RulesDeleted,
		SyncsSucceeded, SyncsFailed,
		CleanupFailures,
	)
}
