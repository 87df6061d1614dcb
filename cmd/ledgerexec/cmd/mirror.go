package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/network/mirror"
)

var (
	flagMirrorTimeout time.Duration
	flagMirrorYAML    bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Read network information from a mirror node",
}

var mirrorNodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Print the address book published by the mirror",
	Args:  cobra.NoArgs,
	RunE:  runMirrorNodes,
}

func init() {
	mirrorNodesCmd.Flags().DurationVar(&flagMirrorTimeout, "timeout", 10*time.Second, "timeout of each mirror request")
	mirrorNodesCmd.Flags().BoolVar(&flagMirrorYAML, "yaml", false, "print the address book as a network configuration file")
	mirrorCmd.AddCommand(mirrorNodesCmd)
}

func runMirrorNodes(cmd *cobra.Command, _ []string) error {
	url := viper.GetString("mirror-url")
	if url == "" {
		return fmt.Errorf("--mirror-url is required")
	}
	client, err := mirror.NewClient(log, url, flagMirrorTimeout)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	nodes, err := client.AddressBook(ctx)
	if err != nil {
		return err
	}
	if flagMirrorYAML {
		return writeNetworkConfig(cmd.OutOrStdout(), nodes)
	}
	for _, node := range nodes.Sorted() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", node.AccountID, node.Address)
	}
	return nil
}

// networkConfig is the network section of the configuration file.
type networkConfig struct {
	Network []networkNode `yaml:"network"`
}

type networkNode struct {
	AccountID string `yaml:"account-id"`
	Address   string `yaml:"address"`
}

// writeNetworkConfig writes nodes in the form read back by --config.
func writeNetworkConfig(w io.Writer, nodes ledger.NodeIdentityList) error {
	config := networkConfig{Network: make([]networkNode, 0, len(nodes))}
	for _, node := range nodes.Sorted() {
		config.Network = append(config.Network, networkNode{
			AccountID: node.AccountID.String(),
			Address:   node.Address,
		})
	}

	enc := yaml.NewEncoder(w)
	err := enc.Encode(&config)
	if err != nil {
		return fmt.Errorf("could not encode network configuration: %w", err)
	}
	return enc.Close()
}
