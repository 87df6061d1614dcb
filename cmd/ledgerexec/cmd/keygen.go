package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerexec/ledgerexec/crypto"
)

var flagKeygenAlgorithm string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a signing key",
	Args:  cobra.NoArgs,
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&flagKeygenAlgorithm, "algorithm", "ed25519", "ed25519 or ecdsa-secp256k1")
}

func runKeygen(cmd *cobra.Command, _ []string) error {
	var algo crypto.SigningAlgorithm
	switch strings.ToLower(flagKeygenAlgorithm) {
	case "ed25519":
		algo = crypto.ED25519
	case "ecdsa-secp256k1", "ecdsa", "secp256k1":
		algo = crypto.ECDSA_SECp256k1
	default:
		return fmt.Errorf("unknown algorithm %q", flagKeygenAlgorithm)
	}

	key, err := crypto.GeneratePrivateKey(algo)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "private\t%s\npublic\t%s\n", key, key.PublicKey())
	return nil
}
