package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerexec/ledgerexec/sdk"
)

var (
	flagSubmitConcurrency int
	flagSubmitNoWait      bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Submit transactions signed offline",
	Long: `Submit the transactions of a file written by transfer --offline, or any file
holding one portable transaction or a JSON array of them. Items that cannot be
decoded are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().IntVar(&flagSubmitConcurrency, "concurrency", 4, "transactions submitted at the same time")
	submitCmd.Flags().BoolVar(&flagSubmitNoWait, "no-wait", false, "do not wait for the receipts")
}

// readTransactions decodes a file holding one portable transaction or a list of them.
// Undecodable items are nil in the result and reported in the error.
func readTransactions(path string) ([]*sdk.AnyTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return sdk.DecodeAnyTransactionList(data)
	}
	tx, err := sdk.DecodeAnyTransaction(data)
	if err != nil {
		return nil, err
	}
	return []*sdk.AnyTransaction{tx}, nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	txs, decodeErr := readTransactions(args[0])
	for _, err := range multierr.Errors(decodeErr) {
		log.Warn().Err(err).Msg("skipping transaction")
	}
	if len(txs) == 0 {
		return decodeErr
	}

	client, stop, err := newClient()
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := commandContext()
	defer cancel()

	bar := progressbar.Default(int64(len(txs)), "submitting")
	var mu sync.Mutex
	var failures error

	group, ctx := errgroup.WithContext(ctx)
	if flagSubmitConcurrency > 0 {
		group.SetLimit(flagSubmitConcurrency)
	}
	for _, tx := range txs {
		if tx == nil {
			_ = bar.Add(1)
			continue
		}
		tx := tx
		group.Go(func() error {
			defer func() { _ = bar.Add(1) }()

			line, err := submitOne(ctx, client, tx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = multierr.Append(failures, err)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		})
	}
	_ = group.Wait()
	_ = bar.Finish()

	return multierr.Combine(decodeErr, failures)
}

func submitOne(ctx context.Context, client *sdk.Client, tx *sdk.AnyTransaction) (string, error) {
	txID, _ := tx.TransactionID()
	response, err := tx.Execute(ctx, client)
	if err != nil {
		return "", fmt.Errorf("%s: %w", txID, err)
	}
	if flagSubmitNoWait {
		return response.String(), nil
	}
	receipt, err := response.GetReceipt(ctx, client)
	if err != nil {
		return "", fmt.Errorf("%s: %w", response.TransactionID, err)
	}
	return fmt.Sprintf("%s\t%s", response.TransactionID, receipt.Status), nil
}
