package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/docker/go-units"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ledgerexec/ledgerexec/sdk"
	bstorage "github.com/ledgerexec/ledgerexec/storage/badger"
)

var flagReplayConcurrency int

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage the queue of transactions waiting to be submitted",
}

var pendingAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Queue the transactions of a file written by transfer --offline",
	Args:  cobra.ExactArgs(1),
	RunE:  runPendingAdd,
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued transactions",
	Args:  cobra.NoArgs,
	RunE:  runPendingList,
}

var pendingReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Submit every queued transaction and wait for the receipts",
	Long: `Submit every queued transaction and wait for its receipt. Transactions that
reached consensus, expired or cannot be decoded leave the queue. The others stay,
with the failure recorded, and are tried again on the next replay.`,
	Args: cobra.NoArgs,
	RunE: runPendingReplay,
}

func init() {
	pendingReplayCmd.Flags().IntVar(&flagReplayConcurrency, "concurrency", 4, "transactions replayed at the same time")
	pendingCmd.AddCommand(pendingAddCmd, pendingListCmd, pendingReplayCmd)
}

// withQueue runs f with the queue stored in the data directory. client may be nil for
// operations that do not reach the network.
func withQueue(client *sdk.Client, f func(*sdk.PendingQueue) error) error {
	db, err := bstorage.OpenDB(flagDataDir)
	if err != nil {
		return err
	}
	defer func(db *badger.DB) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("could not close database")
		}
	}(db)

	return f(sdk.NewPendingQueue(log, bstorage.NewPendingTransactions(db), client))
}

func runPendingAdd(cmd *cobra.Command, args []string) error {
	txs, decodeErr := readTransactions(args[0])
	for _, err := range multierr.Errors(decodeErr) {
		log.Warn().Err(err).Msg("skipping transaction")
	}
	if len(txs) == 0 {
		return decodeErr
	}

	return withQueue(nil, func(queue *sdk.PendingQueue) error {
		added := 0
		var errs error
		for _, tx := range txs {
			if tx == nil {
				continue
			}
			if err := queue.Add(tx); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			added++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d transactions queued\n", added)
		return multierr.Combine(decodeErr, errs)
	})
}

func runPendingList(cmd *cobra.Command, _ []string) error {
	return withQueue(nil, func(queue *sdk.PendingQueue) error {
		pending, err := queue.List()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tQUEUED\tSIZE\tATTEMPTS\tLAST ERROR")
		for _, tx := range pending {
			fmt.Fprintf(w, "%s\t%s ago\t%s\t%d\t%s\n",
				tx.ID,
				units.HumanDuration(time.Since(tx.Created)),
				units.HumanSize(float64(len(tx.Payload))),
				tx.Attempts,
				tx.LastError,
			)
		}
		return w.Flush()
	})
}

func runPendingReplay(cmd *cobra.Command, _ []string) error {
	client, stop, err := newClient()
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := commandContext()
	defer cancel()

	return withQueue(client, func(queue *sdk.PendingQueue) error {
		pending, err := queue.List()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to replay")
			return nil
		}

		bar := progressbar.Default(int64(len(pending)), "replaying")
		results, err := queue.Replay(ctx, flagReplayConcurrency, func(sdk.ReplayResult) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		remaining := 0
		for _, result := range results {
			fmt.Fprintln(cmd.OutOrStdout(), result)
			if !result.Removed {
				remaining++
			}
		}
		log.Info().Int("replayed", len(results)).Int("remaining", remaining).Msg("replay finished")
		return err
	})
}
