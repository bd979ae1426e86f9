package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

var (
	sessionStoreOnce sync.Once
	sessionStore     *core.SessionStore
)

func ensureSessionStore() (*core.SessionStore, error) {
	led, err := altLedger()
	if err != nil {
		return nil, err
	}
	sessionStoreOnce.Do(func() {
		sessionStore = core.NewSessionStore(led)
	})
	return sessionStore, nil
}

func sessionCreateHandler(cmd *cobra.Command, args []string) error {
	owner, err := registryDecodeAddr(args[0])
	if err != nil {
		return err
	}
	capabilities, err := parseCapabilityArg(args[1])
	if err != nil {
		return err
	}
	namespace := args[2]

	store, err := ensureSessionStore()
	if err != nil {
		return err
	}
	sess, err := store.Create(core.SessionParams{Owner: owner, Capabilities: capabilities, Namespace: namespace})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sess.ID.Hex())
	return nil
}

func sessionGetHandler(cmd *cobra.Command, args []string) error {
	id, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	store, err := ensureSessionStore()
	if err != nil {
		return err
	}
	sess, err := store.Get(core.Hash(id))
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}

func sessionNarrowHandler(cmd *cobra.Command, args []string) error {
	id, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	next, err := parseCapabilityArg(args[1])
	if err != nil {
		return err
	}
	store, err := ensureSessionStore()
	if err != nil {
		return err
	}
	sess, err := store.Get(core.Hash(id))
	if err != nil {
		return err
	}
	if err := sess.NarrowCapabilities(next); err != nil {
		return err
	}
	return store.Commit(sess)
}

func sessionConsumeHandler(cmd *cobra.Command, args []string) error {
	id, err := registryDecodeHash(args[0])
	if err != nil {
		return err
	}
	var successors []core.SessionParams
	if len(args) > 1 {
		for _, spec := range strings.Split(args[1], ";") {
			fields := strings.Split(spec, ",")
			if len(fields) < 3 {
				return fmt.Errorf("successor spec %q must be owner,capabilities,namespace", spec)
			}
			owner, err := registryDecodeAddr(fields[0])
			if err != nil {
				return err
			}
			capabilities, err := parseCapabilityArg(fields[1])
			if err != nil {
				return err
			}
			successors = append(successors, core.SessionParams{Owner: owner, Capabilities: capabilities, Namespace: fields[2]})
		}
	}
	store, err := ensureSessionStore()
	if err != nil {
		return err
	}
	children, err := store.Consume(core.Hash(id), successors)
	if err != nil {
		return err
	}
	for _, child := range children {
		fmt.Fprintln(cmd.OutOrStdout(), child.ID.Hex())
	}
	return nil
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create, inspect, narrow, and consume linear-typed sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create <owner> <capabilities> <namespace>",
	Short: "Create a new active session",
	Args:  cobra.ExactArgs(3),
	RunE:  sessionCreateHandler,
}

var sessionGetCmd = &cobra.Command{
	Use:   "get <session-id>",
	Short: "Print a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  sessionGetHandler,
}

var sessionNarrowCmd = &cobra.Command{
	Use:   "narrow <session-id> <capabilities>",
	Short: "Narrow a session's capability set (monotonically non-increasing)",
	Args:  cobra.ExactArgs(2),
	RunE:  sessionNarrowHandler,
}

var sessionConsumeCmd = &cobra.Command{
	Use:   "consume <session-id> [owner,capabilities,namespace;...]",
	Short: "Consume a session, optionally splitting into successor sessions",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  sessionConsumeHandler,
}

func init() {
	sessionCmd.AddCommand(sessionCreateCmd, sessionGetCmd, sessionNarrowCmd, sessionConsumeCmd)
}

// SessionCmd exports the root command.
var SessionCmd = sessionCmd
