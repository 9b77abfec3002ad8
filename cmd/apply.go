package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"gateway-manager/core/partition"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applySource string
	applyPrefix string
	applyRule   string
)

// applyCmd creates a fresh block list configuration on the account.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create gateway lists and a blocking rule from a block list source",
	Long: `Apply fetches a block list source, extracts the canonical domain set,
splits it into gateway-sized lists and creates a single DNS blocking rule
referencing all of them. Conflict and quota checks run before anything is
created, so a refused apply leaves the account untouched.

The source may be a local file, a file://, http(s):// or s3:// location.
List and rule names default to values derived from the source.

Examples:
  # Apply a public hosts list with derived names
  gateway-manager apply --source https://hosts.example.org/ads.txt

  # Apply a local file with explicit names
  gateway-manager apply --source ./ads.txt --prefix ads_list_ --rule ads_rule`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applySource, "source", "", "Block list source (path, file://, http(s):// or s3://)")
	applyCmd.Flags().StringVar(&applyPrefix, "prefix", "", "List name prefix (derived from the source when empty)")
	applyCmd.Flags().StringVar(&applyRule, "rule", "", "Rule name (derived from the source when empty)")
	_ = applyCmd.MarkFlagRequired("source")

	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	prefix, rule := applyPrefix, applyRule
	if prefix == "" || rule == "" {
		derivedPrefix, derivedRule := partition.DeriveNames(applySource)
		if prefix == "" {
			prefix = derivedPrefix
		}
		if rule == "" {
			rule = derivedRule
		}
	}

	rt.log.Info("Starting apply",
		zap.String("source", applySource),
		zap.String("prefix", prefix),
		zap.String("rule", rule))

	job, err := rt.orchestrator.Apply(ctx, applySource, prefix, rule)
	if err != nil {
		return reportOutcome(rt.log, err)
	}

	rt.log.Info("Apply succeeded",
		zap.Int("domains", job.Domains),
		zap.Int("lists", len(job.CreatedListIDs)),
		zap.String("rule_id", job.CreatedRuleID))
	fmt.Printf("Created %d lists and rule %s (%d domains)\n", len(job.CreatedListIDs), job.CreatedRuleID, job.Domains)
	return nil
}
