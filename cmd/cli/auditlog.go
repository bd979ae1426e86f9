package cli

import (
	"encoding/json"
	"fmt"

	"capkernel/runtime"

	"github.com/spf13/cobra"
)

func kernelAuditFileConfig(cmd *cobra.Command) (runtime.AuditLogConfig, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return runtime.AuditLogConfig{}, err
	}
	retention, err := cmd.Flags().GetInt("retention-days")
	if err != nil {
		return runtime.AuditLogConfig{}, err
	}
	maxEntries, err := cmd.Flags().GetInt("max-entries-per-file")
	if err != nil {
		return runtime.AuditLogConfig{}, err
	}
	return runtime.AuditLogConfig{Dir: dir, RetentionDays: retention, MaxEntriesPerFile: maxEntries}, nil
}

func kernelAuditVerifyHandler(cmd *cobra.Command, _ []string) error {
	cfg, err := kernelAuditFileConfig(cmd)
	if err != nil {
		return err
	}
	log, err := runtime.OpenAuditLog(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	entries, err := log.ReadChain()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d entries, chain verified\n", len(entries))
	return nil
}

func kernelAuditShowHandler(cmd *cobra.Command, _ []string) error {
	cfg, err := kernelAuditFileConfig(cmd)
	if err != nil {
		return err
	}
	log, err := runtime.OpenAuditLog(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	entries, err := log.ReadChain()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}

func kernelAuditPruneHandler(cmd *cobra.Command, _ []string) error {
	cfg, err := kernelAuditFileConfig(cmd)
	if err != nil {
		return err
	}
	log, err := runtime.OpenAuditLog(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	return log.PruneExpired()
}

var kernelAuditLogCmd = &cobra.Command{
	Use:   "auditlog",
	Short: "Inspect and maintain the kernel's hash-chained audit log",
}

var kernelAuditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Read every rotated file and verify the hash chain",
	Args:  cobra.NoArgs,
	RunE:  kernelAuditVerifyHandler,
}

var kernelAuditShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every entry in the audit chain as JSON",
	Args:  cobra.NoArgs,
	RunE:  kernelAuditShowHandler,
}

var kernelAuditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete rotated log files older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  kernelAuditPruneHandler,
}

func init() {
	for _, c := range []*cobra.Command{kernelAuditVerifyCmd, kernelAuditShowCmd, kernelAuditPruneCmd} {
		c.Flags().String("dir", "./audit", "audit log directory")
		c.Flags().Int("retention-days", 90, "retention window in days")
		c.Flags().Int("max-entries-per-file", 10000, "max entries per rotated file")
	}
	kernelAuditLogCmd.AddCommand(kernelAuditVerifyCmd, kernelAuditShowCmd, kernelAuditPruneCmd)
}

// AuditLogCmd exports the root command.
var AuditLogCmd = kernelAuditLogCmd
