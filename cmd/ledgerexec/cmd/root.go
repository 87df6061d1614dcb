// Package cmd implements the ledgerexec command line: queries, transfers, offline
// signing and the pending transaction queue.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/module/metrics"
	"github.com/ledgerexec/ledgerexec/sdk"
)

const envPrefix = "LEDGEREXEC"

var (
	flagConfigFile  string
	flagLogLevel    string
	flagNodes       []string
	flagMirrorURL   string
	flagOperatorID  string
	flagOperatorKey string
	flagMetricsPort uint
	flagDataDir     string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "ledgerexec",
	Short:         "Submit transactions and queries to a ledger network",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaults := sdk.DefaultConfig()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&flagConfigFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringSliceVar(&flagNodes, "node", nil, "network node as account=address, repeatable; replaces the configured network")
	flags.StringVar(&flagMirrorURL, "mirror-url", "", "mirror node REST API to read the address book from")
	flags.StringVar(&flagOperatorID, "operator-id", "", "account paying for transactions and queries")
	flags.StringVar(&flagOperatorKey, "operator-key", "", "hex private key of the operator")
	flags.UintVar(&flagMetricsPort, "metrics-port", 0, "serve prometheus metrics on this port, 0 disables")
	flags.StringVar(&flagDataDir, "data-dir", "ledgerexec-data", "directory of the pending transaction queue")
	flags.Int("max-attempts", defaults.MaxAttempts, "attempts per request over all nodes")
	flags.Duration("request-timeout", defaults.RequestTimeout, "time budget of one request over all attempts")
	flags.Duration("receipt-timeout", defaults.ReceiptTimeout, "how long to wait for a receipt")

	bindFlag("mirror-url", "mirror-url")
	bindFlag("max-attempts", "max-attempts")
	bindFlag("request-timeout", "request-timeout")
	bindFlag("receipt-timeout", "receipt-timeout")
	bindFlag("operator.account-id", "operator-id")
	bindFlag("operator.key", "operator-key")

	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return initLogger()
	}

	rootCmd.AddCommand(balanceCmd, transferCmd, submitCmd, receiptCmd, pendingCmd, mirrorCmd, keygenCmd)

	cobra.OnInitialize(initConfig)
}

func bindFlag(key, flag string) {
	err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		panic(fmt.Sprintf("could not bind flag %s: %v", flag, err))
	}
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if flagConfigFile != "" {
		viper.SetConfigFile(flagConfigFile)
		err := viper.ReadInConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read config file %s: %v\n", flagConfigFile, err)
			os.Exit(1)
		}
	}
}

func initLogger() error {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return nil
}

// commandContext is canceled on SIGINT and SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newClient creates a client from the configuration, with the operator set when one
// is configured. The returned stop function closes the client and the metrics server.
func newClient() (*sdk.Client, func(), error) {
	config, err := loadClientConfig(viper.GetViper(), flagNodes)
	if err != nil {
		return nil, nil, err
	}

	var opts []sdk.Option
	var server *metrics.Server
	if flagMetricsPort > 0 {
		registry := prometheus.NewRegistry()
		opts = append(opts, sdk.WithMetrics(metrics.NewClientCollector(registry)))
		server = metrics.NewServer(log, flagMetricsPort, registry, metrics.NewHTTPCollector(registry))
		err = server.Start()
		if err != nil {
			return nil, nil, fmt.Errorf("could not start metrics server: %w", err)
		}
	}

	client, err := sdk.NewClient(log, config, opts...)
	if err != nil {
		if server != nil {
			server.Shutdown()
		}
		return nil, nil, err
	}

	operator, err := loadOperator(viper.GetViper())
	if err != nil {
		client.Close()
		if server != nil {
			server.Shutdown()
		}
		return nil, nil, err
	}
	if operator != nil {
		client.SetOperator(operator.AccountID, operator.Signer)
	}

	stop := func() {
		client.Close()
		if server != nil {
			server.Shutdown()
		}
	}
	return client, stop, nil
}

// loadOperator reads the operator account and key. Both or neither must be set.
func loadOperator(v *viper.Viper) (*sdk.Operator, error) {
	id := v.GetString("operator.account-id")
	key := v.GetString("operator.key")
	switch {
	case id == "" && key == "":
		return nil, nil
	case id == "" || key == "":
		return nil, fmt.Errorf("operator account and operator key must be set together")
	}

	accountID, err := ledger.AccountIDFromString(id)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account: %w", err)
	}
	signer, err := crypto.DecodePrivateKeyHex(key)
	if err != nil {
		return nil, fmt.Errorf("invalid operator key: %w", err)
	}
	return &sdk.Operator{AccountID: accountID, Signer: signer}, nil
}
