package cli

import (
	"encoding/json"
	"fmt"
	"os"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

func guardEvalHandler(cmd *cobra.Command, args []string) error {
	guardRaw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	ctxRaw, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	var g core.Guard
	if err := json.Unmarshal(guardRaw, &g); err != nil {
		return fmt.Errorf("invalid guard file: %w", err)
	}
	var gctx core.GuardContext
	if err := json.Unmarshal(ctxRaw, &gctx); err != nil {
		return fmt.Errorf("invalid guard context file: %w", err)
	}

	store, err := zkVkStore()
	if err != nil {
		return err
	}
	ok, err := core.EvaluateGuard(&g, &gctx, store)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	return nil
}

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Evaluate guard preconditions",
}

var guardEvalCmd = &cobra.Command{
	Use:   "eval <guard.json> <context.json>",
	Short: "Evaluate a guard against a context, recursing through composites",
	Args:  cobra.ExactArgs(2),
	RunE:  guardEvalHandler,
}

func init() {
	guardCmd.AddCommand(guardEvalCmd)
}

// GuardCmd exports the root command.
var GuardCmd = guardCmd
