package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/python-discord/sir-robin-go/pkg/approval"
)

// policyEvaluateCmd represents the policy evaluate command
var policyEvaluateCmd = &cobra.Command{
	Use:   "evaluate <policy file>",
	Short: "Evaluate an approval policy against a change",
	Long: `Evaluate an approval policy against a change.

Pass the changed files, the pull request labels and the users that have
approved; the command prints each triggered rule and exits non-zero when
the change is not approved.

Example:
  robinctl policy evaluate policy.yml --files bot/exts/games.py --approvals lemon`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		files, _ := cmd.Flags().GetStringSlice("files")
		labels, _ := cmd.Flags().GetStringSlice("labels")
		approvals, _ := cmd.Flags().GetStringSlice("approvals")

		policy, err := approval.LoadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load policy: %v\n", err)
			os.Exit(1)
		}

		decision := policy.Evaluate(files, labels, approvals)
		printDecision(decision)
		if !decision.Approved {
			os.Exit(1)
		}
	},
}

func init() {
	policyCmd.AddCommand(policyEvaluateCmd)
	policyEvaluateCmd.Flags().StringSlice("files", nil, "Changed file paths")
	policyEvaluateCmd.Flags().StringSlice("labels", nil, "Pull request labels")
	policyEvaluateCmd.Flags().StringSlice("approvals", nil, "Users that approved the change")
}

func printDecision(decision approval.Decision) {
	if len(decision.Statuses) == 0 {
		fmt.Println("No rules triggered; change is approved")
		return
	}

	for _, status := range decision.Statuses {
		required := status.Rule.Count
		if required == 0 {
			required = 1
		}
		state := "satisfied"
		if !status.Satisfied {
			state = "NOT satisfied"
		}
		fmt.Printf("rule %q: %d/%d approvals, %s\n", status.Rule.Name, status.Approvals, required, state)
	}

	if decision.Approved {
		fmt.Println("Change is approved")
	} else {
		fmt.Println("Change is NOT approved")
	}
}
