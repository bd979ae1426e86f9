package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

var (
	registryOnce sync.Once
	registry     *core.FunctionRegistry
)

func registryInit(cmd *cobra.Command, _ []string) error {
	return ensureRegistry()
}

func ensureRegistry() error {
	var err error
	registryOnce.Do(func() {
		led := core.CurrentLedger()
		if led == nil {
			err = errors.New("ledger not initialised")
			return
		}
		registry = core.NewFunctionRegistry(led)
	})
	return err
}

func registryDecodeAddr(h string) (core.Address, error) {
	var a core.Address
	b, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil || len(b) != len(a) {
		return a, fmt.Errorf("invalid address")
	}
	copy(a[:], b)
	return a, nil
}

func registryDecodeHash(h string) (core.Hash, error) {
	var out core.Hash
	b, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil || len(b) != len(out) {
		return out, fmt.Errorf("invalid hash")
	}
	copy(out[:], b)
	return out, nil
}

func registryRegisterHandler(cmd *cobra.Command, args []string) error {
	importer, err := registryDecodeAddr(args[0])
	if err != nil {
		return err
	}
	programID, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	bytecodeHash, err := registryDecodeHash(args[2])
	if err != nil {
		return err
	}
	required, err := core.ParseCapabilities(strings.Split(args[3], ","))
	if err != nil {
		return err
	}
	respectDereg, _ := cmd.Flags().GetBool("respect-deregistration")
	id, err := registry.Register(importer, programID, bytecodeHash, required, respectDereg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
	return nil
}

func registryLookupHandler(cmd *cobra.Command, args []string) error {
	id, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	entry, err := registry.Lookup(core.FunctionID(id))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "program=%x active=%v capabilities=%s\n", entry.ProgramID, entry.Active, entry.RequiredCapabilities)
	return nil
}

func registryDeactivateHandler(cmd *cobra.Command, args []string) error {
	caller, err := registryDecodeAddr(args[0])
	if err != nil {
		return err
	}
	id, err := registryDecodeHash(args[1])
	if err != nil {
		return err
	}
	return registry.Deactivate(caller, core.FunctionID(id))
}

var registryCmd = &cobra.Command{
	Use:               "registry",
	Short:             "Content-addressed function registry",
	PersistentPreRunE: registryInit,
}

var registryRegisterCmd = &cobra.Command{
	Use:   "register <importer> <program-id> <bytecode-hash> <capabilities>",
	Short: "Register a function under H = hash(program_id || bytecode_hash)",
	Args:  cobra.ExactArgs(4),
	RunE:  registryRegisterHandler,
}

var registryLookupCmd = &cobra.Command{
	Use:   "lookup <function-id>",
	Short: "Look up a registered function by id",
	Args:  cobra.ExactArgs(1),
	RunE:  registryLookupHandler,
}

var registryDeactivateCmd = &cobra.Command{
	Use:   "deactivate <caller> <function-id>",
	Short: "Deactivate a function registered by caller",
	Args:  cobra.ExactArgs(2),
	RunE:  registryDeactivateHandler,
}

func init() {
	registryRegisterCmd.Flags().Bool("respect-deregistration", true, "fail CallRegisteredFunction once deactivated")
	registryCmd.AddCommand(registryRegisterCmd, registryLookupCmd, registryDeactivateCmd)
}

// RegistryCmd exports the root command.
var RegistryCmd = registryCmd
