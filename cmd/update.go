package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var updateYes bool

// updateCmd replaces a managed rule's configuration from its stored
// source.
var updateCmd = &cobra.Command{
	Use:   "update <rule-id>",
	Short: "Replace a managed rule's lists from its stored source",
	Long: `Update refetches the source recorded on a managed rule, deletes the old
rule and its lists, and recreates the configuration from the fresh content.

The old rule is removed before the new one exists. If creation then fails
the old configuration cannot be restored; the command reports this case
distinctly so the account can be reconciled by hand.

Examples:
  # Update after confirming interactively
  gateway-manager update 0d217b2c-09d8-4d30-8a24-6a0e6a0efd55

  # Update without prompting (non-interactive)
  gateway-manager update 0d217b2c-09d8-4d30-8a24-6a0e6a0efd55 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateYes, "yes", false, "Auto-confirm the replacement (non-interactive)")
	RootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ruleID := args[0]

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if !confirmReplacement() {
		rt.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	rt.log.Info("Starting update", zap.String("rule_id", ruleID))

	job, err := rt.orchestrator.Update(ctx, ruleID)
	if err != nil {
		return reportOutcome(rt.log, err)
	}

	rt.log.Info("Update succeeded",
		zap.Int("domains", job.Domains),
		zap.Int("lists", len(job.CreatedListIDs)),
		zap.String("rule_id", job.CreatedRuleID))
	fmt.Printf("Replaced with %d lists and rule %s (%d domains)\n", len(job.CreatedListIDs), job.CreatedRuleID, job.Domains)
	return nil
}

// confirmReplacement prompts the user for confirmation or uses --yes flag.
func confirmReplacement() bool {
	if updateYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  The existing rule and lists will be deleted before the new ones exist. Type 'yes' to continue: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
