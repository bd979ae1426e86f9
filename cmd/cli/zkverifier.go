package cli

import (
	"encoding/json"
	"fmt"
	"os"

	core "capkernel/core"
	"github.com/spf13/cobra"
)

func zkVkStore() (*core.VerificationKeyStore, error) {
	led, err := altLedger()
	if err != nil {
		return nil, err
	}
	return core.NewVerificationKeyStore(led), nil
}

func zkPutHandler(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var vk core.VerificationKey
	if err := json.Unmarshal(raw, &vk); err != nil {
		return fmt.Errorf("invalid verification key file: %w", err)
	}
	store, err := zkVkStore()
	if err != nil {
		return err
	}
	return store.Put(&vk)
}

func zkVerifyHandler(cmd *cobra.Command, args []string) error {
	vkID := args[0]
	owner, err := registryDecodeAddr(args[1])
	if err != nil {
		return err
	}
	proof, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	publicValues, err := os.ReadFile(args[3])
	if err != nil {
		return err
	}

	store, err := zkVkStore()
	if err != nil {
		return err
	}
	vk, err := store.Get(vkID, owner)
	if err != nil {
		return err
	}
	verifier, err := core.VerifierFor(vk.ProofSystem)
	if err != nil {
		return err
	}
	ok, err := verifier.Verify(vk, proof, publicValues)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	return nil
}

var zkVerifierCmd = &cobra.Command{
	Use:   "zkverifier",
	Short: "Manage verification keys and check proofs",
}

var zkPutCmd = &cobra.Command{
	Use:   "put <verification-key.json>",
	Short: "Store a verification key",
	Args:  cobra.ExactArgs(1),
	RunE:  zkPutHandler,
}

var zkVerifyCmd = &cobra.Command{
	Use:   "verify <vk-id> <owner> <proof-file> <public-values-file>",
	Short: "Verify a proof against a stored verification key",
	Args:  cobra.ExactArgs(4),
	RunE:  zkVerifyHandler,
}

func init() {
	zkVerifierCmd.AddCommand(zkPutCmd, zkVerifyCmd)
}

// ZkVerifierCmd exports the root command.
var ZkVerifierCmd = zkVerifierCmd
