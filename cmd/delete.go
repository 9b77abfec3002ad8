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

var deleteYes bool

// deleteCmd removes a managed rule and its lists.
var deleteCmd = &cobra.Command{
	Use:   "delete <rule-id>",
	Short: "Delete a managed rule and every list it references",
	Long: `Delete removes a rule and all gateway lists referenced by its traffic
expression. List deletions that fail are reported as leftovers rather
than aborting the removal.

Examples:
  gateway-manager delete 0d217b2c-09d8-4d30-8a24-6a0e6a0efd55 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Auto-confirm the deletion (non-interactive)")
	RootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ruleID := args[0]

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if !confirmDeletion() {
		rt.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	rt.log.Info("Starting delete", zap.String("rule_id", ruleID))

	unremoved, err := rt.orchestrator.Delete(ctx, ruleID)
	if err != nil {
		return reportOutcome(rt.log, err)
	}

	if len(unremoved) > 0 {
		rt.log.Warn("Rule deleted, but some lists remain",
			zap.Strings("unremoved", unremoved))
		fmt.Printf("Rule deleted; %d lists could not be removed: %s\n", len(unremoved), strings.Join(unremoved, ", "))
		return nil
	}

	rt.log.Info("Delete succeeded")
	fmt.Println("Rule and lists deleted")
	return nil
}

// confirmDeletion prompts the user for confirmation or uses --yes flag.
func confirmDeletion() bool {
	if deleteYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm deletion: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
