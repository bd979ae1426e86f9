package cli

import (
	"fmt"
	"strings"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

func capParseHandler(cmd *cobra.Command, args []string) error {
	names := strings.Split(args[0], ",")
	cap, err := core.ParseCapabilities(names)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d (%s)\n", uint64(cap), cap.String())
	return nil
}

func capSubsetHandler(cmd *cobra.Command, args []string) error {
	a, err := parseCapabilityArg(args[0])
	if err != nil {
		return err
	}
	b, err := parseCapabilityArg(args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.Subset(b))
	return nil
}

func parseCapabilityArg(raw string) (core.Capability, error) {
	return core.ParseCapabilities(strings.Split(raw, ","))
}

var capabilityCmd = &cobra.Command{
	Use:   "capability",
	Short: "Inspect and combine capability bitmaps",
}

var capParseCmd = &cobra.Command{
	Use:   "parse <names>",
	Short: "Parse a comma-separated list of capability names into a bitmap",
	Args:  cobra.ExactArgs(1),
	RunE:  capParseHandler,
}

var capSubsetCmd = &cobra.Command{
	Use:   "subset <names-a> <names-b>",
	Short: "Report whether capability set A is a subset of set B",
	Args:  cobra.ExactArgs(2),
	RunE:  capSubsetHandler,
}

func init() {
	capabilityCmd.AddCommand(capParseCmd, capSubsetCmd)
}

// CapabilityCmd exports the root command.
var CapabilityCmd = capabilityCmd
