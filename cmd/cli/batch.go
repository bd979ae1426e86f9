package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

var (
	batchOnce     sync.Once
	batchExecutor *core.BatchExecutor
)

func batchExecutorFor(authority core.Address) (*core.BatchExecutor, error) {
	led, err := altLedger()
	if err != nil {
		return nil, err
	}
	if rerr := ensureRegistry(); rerr != nil {
		return nil, rerr
	}
	batchOnce.Do(func() {
		sessions := core.NewSessionStore(led)
		list, lerr := allowlistFor(authority)
		if lerr != nil {
			err = lerr
			return
		}
		batchExecutor = core.NewBatchExecutor(sessions, registry, list, led)
	})
	if err != nil {
		return nil, err
	}
	return batchExecutor, nil
}

func batchExecuteHandler(cmd *cobra.Command, args []string) error {
	sessionID, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	caller, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	var batch core.OperationBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("invalid batch file: %w", err)
	}

	led, err := altLedger()
	if err != nil {
		return err
	}
	alt, err := core.LoadALT(led, core.Hash(sessionID), caller)
	if err != nil {
		return err
	}
	exec, err := batchExecutorFor(caller)
	if err != nil {
		return err
	}
	if err := exec.Execute(core.Hash(sessionID), alt, &batch, caller, time.Now()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "batch executed")
	return nil
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Execute operation batches against a session",
}

var batchExecuteCmd = &cobra.Command{
	Use:   "execute <session-id> <caller> <batch.json>",
	Short: "Execute a JSON-encoded operation batch atomically",
	Args:  cobra.ExactArgs(3),
	RunE:  batchExecuteHandler,
}

func init() {
	batchCmd.AddCommand(batchExecuteCmd)
}

// BatchCmd exports the root command.
var BatchCmd = batchCmd
