package cli

import (
	"fmt"
	"strings"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

func altLedger() (core.StateRW, error) {
	led := core.CurrentLedger()
	if led == nil {
		return nil, fmt.Errorf("ledger not initialised")
	}
	return led, nil
}

func altLabel(name string) [32]byte {
	var out [32]byte
	copy(out[:], name)
	return out
}

func altParsePerm(raw string) (core.BorrowPermission, error) {
	switch strings.ToLower(raw) {
	case "read":
		return core.PermRead, nil
	case "write":
		return core.PermWrite, nil
	case "readwrite", "read-write", "rw":
		return core.PermReadWrite, nil
	default:
		return 0, fmt.Errorf("unknown permission %q", raw)
	}
}

func altRegisterBorrowableHandler(cmd *cobra.Command, args []string) error {
	led, err := altLedger()
	if err != nil {
		return err
	}
	sessionID, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	authority, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	addr, err := registryDecodeAddr(args[2])
	if err != nil {
		return err
	}
	perm, err := altParsePerm(args[3])
	if err != nil {
		return err
	}
	label := args[4]

	alt, err := core.LoadALT(led, core.Hash(sessionID), authority)
	if err != nil {
		return err
	}
	idx, err := alt.RegisterBorrowable(authority, addr, perm, altLabel(label))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), idx)
	return nil
}

func altRegisterProgramHandler(cmd *cobra.Command, args []string) error {
	led, err := altLedger()
	if err != nil {
		return err
	}
	sessionID, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	authority, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	addr, err := registryDecodeAddr(args[2])
	if err != nil {
		return err
	}
	label := args[3]

	alt, err := core.LoadALT(led, core.Hash(sessionID), authority)
	if err != nil {
		return err
	}
	idx, err := alt.RegisterProgram(authority, addr, altLabel(label))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), idx)
	return nil
}

func altValidateHandler(cmd *cobra.Command, args []string) error {
	led, err := altLedger()
	if err != nil {
		return err
	}
	sessionID, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	authority, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	addr, err := registryDecodeAddr(args[2])
	if err != nil {
		return err
	}
	perm, err := altParsePerm(args[3])
	if err != nil {
		return err
	}

	alt, err := core.LoadALT(led, core.Hash(sessionID), authority)
	if err != nil {
		return err
	}
	idx, err := alt.ValidateBorrowable(addr, perm)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), idx)
	return nil
}

var altCmd = &cobra.Command{
	Use:   "alt",
	Short: "Session-scoped account lookup table",
}

var altRegisterBorrowableCmd = &cobra.Command{
	Use:   "register-borrowable <session-id> <authority> <address> <read|write|readwrite> <label>",
	Short: "Register a borrowable account in the session's ALT",
	Args:  cobra.ExactArgs(5),
	RunE:  altRegisterBorrowableHandler,
}

var altRegisterProgramCmd = &cobra.Command{
	Use:   "register-program <session-id> <authority> <address> <label>",
	Short: "Register a CPI target program in the session's ALT",
	Args:  cobra.ExactArgs(4),
	RunE:  altRegisterProgramHandler,
}

var altValidateCmd = &cobra.Command{
	Use:   "validate <session-id> <authority> <address> <read|write|readwrite>",
	Short: "Check whether an address is borrowable with the required permission",
	Args:  cobra.ExactArgs(4),
	RunE:  altValidateHandler,
}

func init() {
	altCmd.AddCommand(altRegisterBorrowableCmd, altRegisterProgramCmd, altValidateCmd)
}

// ALTCmd exports the root command.
var ALTCmd = altCmd
