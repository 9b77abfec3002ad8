package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statusCmd classifies every managed rule against its stored source.
var statusCmd = &cobra.Command{
	Use:   "status [rule-id]",
	Short: "Check whether managed rules are up to date with their sources",
	Long: `Status refetches the source stored on each managed rule and compares
content fingerprints. It never mutates the account.

Without arguments every managed rule is checked; with a rule id only
that rule is.

Examples:
  gateway-manager status
  gateway-manager status 0d217b2c-09d8-4d30-8a24-6a0e6a0efd55`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if len(args) == 1 {
		report, err := rt.orchestrator.CheckRule(ctx, args[0])
		if err != nil {
			rt.log.Error("Status check failed", zap.String("rule_id", args[0]), zap.Error(err))
			return err
		}
		fmt.Printf("%-40s %-20s %s\n", report.RuleName, report.Status, report.SourceURL)
		return nil
	}

	reports, err := rt.orchestrator.Sweep(ctx)
	if err != nil {
		rt.log.Error("Status sweep failed", zap.Error(err))
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No managed rules found")
		return nil
	}
	for _, report := range reports {
		fmt.Printf("%-40s %-20s %s\n", report.RuleName, report.Status, report.SourceURL)
	}
	return nil
}
