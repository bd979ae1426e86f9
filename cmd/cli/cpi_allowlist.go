package cli

import (
	"fmt"
	"sync"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

var (
	allowlistOnce sync.Once
	allowlist     *core.CPIAllowlist
)

func allowlistFor(authority core.Address) (*core.CPIAllowlist, error) {
	led, err := altLedger()
	if err != nil {
		return nil, err
	}
	allowlistOnce.Do(func() {
		allowlist = core.NewCPIAllowlist(led, authority)
	})
	return allowlist, nil
}

func cpiAddHandler(cmd *cobra.Command, args []string) error {
	caller, err := registryDecodeAddr(args[0])
	if err != nil {
		return err
	}
	addr, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	list, err := allowlistFor(caller)
	if err != nil {
		return err
	}
	return list.Add(caller, addr)
}

func cpiRemoveHandler(cmd *cobra.Command, args []string) error {
	caller, err := registryDecodeAddr(args[0])
	if err != nil {
		return err
	}
	addr, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	list, err := allowlistFor(caller)
	if err != nil {
		return err
	}
	return list.Remove(caller, addr)
}

func cpiContainsHandler(cmd *cobra.Command, args []string) error {
	addr, err := registryDecodeAddr(args[0])
	if err != nil {
		return err
	}
	list, err := allowlistFor(addr)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), list.Contains(addr))
	return nil
}

var cpiAllowlistCmd = &cobra.Command{
	Use:   "cpi-allowlist",
	Short: "Manage the process-wide CPI target allowlist",
}

var cpiAddCmd = &cobra.Command{
	Use:   "add <authority> <program-address>",
	Short: "Allowlist a CPI target program",
	Args:  cobra.ExactArgs(2),
	RunE:  cpiAddHandler,
}

var cpiRemoveCmd = &cobra.Command{
	Use:   "remove <authority> <program-address>",
	Short: "Revoke a CPI target program",
	Args:  cobra.ExactArgs(2),
	RunE:  cpiRemoveHandler,
}

var cpiContainsCmd = &cobra.Command{
	Use:   "contains <program-address>",
	Short: "Report whether a program address is allowlisted",
	Args:  cobra.ExactArgs(1),
	RunE:  cpiContainsHandler,
}

func init() {
	cpiAllowlistCmd.AddCommand(cpiAddCmd, cpiRemoveCmd, cpiContainsCmd)
}

// CPIAllowlistCmd exports the root command.
var CPIAllowlistCmd = cpiAllowlistCmd
