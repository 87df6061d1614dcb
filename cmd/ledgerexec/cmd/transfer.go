package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/sdk"
)

var (
	flagTransferFrom    string
	flagTransferTo      string
	flagTransferAmount  string
	flagTransferMemo    string
	flagTransferOffline string
	flagTransferNoWait  bool
	flagTransferToken   string
	flagTransferDecimal int
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer hbars or tokens between two accounts",
	Long: `Transfer hbars or tokens between two accounts, paid and signed by the operator.

With --token the amount is a whole number of the smallest unit of the token, and
--decimals has the network reject the transfer unless the token has that many
decimals.

With --offline the signed transaction is written to a file instead of being
submitted. It can be submitted later, from any machine, with the submit command or
through the pending queue.`,
	Args: cobra.NoArgs,
	RunE: runTransfer,
}

func init() {
	flags := transferCmd.Flags()
	flags.StringVar(&flagTransferFrom, "from", "", "sending account, the operator by default")
	flags.StringVar(&flagTransferTo, "to", "", "receiving account")
	flags.StringVar(&flagTransferAmount, "amount", "", "amount, e.g. 1.5 or \"150 tℏ\"")
	flags.StringVar(&flagTransferMemo, "memo", "", "transaction memo")
	flags.StringVar(&flagTransferOffline, "offline", "", "write the signed transaction to this file instead of submitting it")
	flags.BoolVar(&flagTransferNoWait, "no-wait", false, "do not wait for the receipt")
	flags.StringVar(&flagTransferToken, "token", "", "token to transfer instead of hbars")
	flags.IntVar(&flagTransferDecimal, "decimals", -1, "decimals the token is expected to have")
	_ = transferCmd.MarkFlagRequired("to")
	_ = transferCmd.MarkFlagRequired("amount")
}

func runTransfer(cmd *cobra.Command, _ []string) error {
	to, err := ledger.AccountIDFromString(flagTransferTo)
	if err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}
	client, stop, err := newClient()
	if err != nil {
		return err
	}
	defer stop()

	operator := client.Operator()
	if operator == nil {
		return fmt.Errorf("transfers need an operator: set --operator-id and --operator-key")
	}
	from := operator.AccountID
	if flagTransferFrom != "" {
		from, err = ledger.AccountIDFromString(flagTransferFrom)
		if err != nil {
			return fmt.Errorf("invalid sender: %w", err)
		}
	}

	tx, err := buildTransfer(from, to)
	if err != nil {
		return err
	}
	if err = tx.SetTransactionMemo(flagTransferMemo); err != nil {
		return err
	}

	if flagTransferOffline != "" {
		return writeOffline(cmd, client, tx)
	}

	ctx, cancel := commandContext()
	defer cancel()

	response, err := tx.Execute(ctx, client)
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}
	log.Info().Str("tx_id", response.TransactionID.String()).Str("node", response.NodeID.String()).Msg("transfer submitted")
	if flagTransferNoWait {
		fmt.Fprintln(cmd.OutOrStdout(), response.TransactionID)
		return nil
	}

	receipt, err := response.GetReceipt(ctx, client)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", response.TransactionID, receipt.Status)
	return nil
}

// buildTransfer moves the amount of the flags, in hbars or in the token of the flags,
// from one account to the other.
func buildTransfer(from, to ledger.AccountID) (*sdk.TransferTransaction, error) {
	tx := sdk.NewTransferTransaction()
	if flagTransferToken == "" {
		amount, err := ledger.HbarFromString(flagTransferAmount)
		if err != nil {
			return nil, err
		}
		if amount <= 0 {
			return nil, fmt.Errorf("amount must be positive")
		}
		if err = tx.AddHbarTransfer(from, amount.Negated()); err != nil {
			return nil, err
		}
		return tx, tx.AddHbarTransfer(to, amount)
	}

	token, err := ledger.TokenIDFromString(flagTransferToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	amount, err := strconv.ParseInt(flagTransferAmount, 10, 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("token amount must be a positive whole number, got %q", flagTransferAmount)
	}
	if flagTransferDecimal < 0 {
		if err = tx.AddTokenTransfer(token, from, -amount); err != nil {
			return nil, err
		}
		return tx, tx.AddTokenTransfer(token, to, amount)
	}
	decimals := uint32(flagTransferDecimal)
	if err = tx.AddTokenTransferWithDecimals(token, from, -amount, decimals); err != nil {
		return nil, err
	}
	return tx, tx.AddTokenTransferWithDecimals(token, to, amount, decimals)
}

// writeOffline freezes and signs tx with the operator and writes its portable form.
func writeOffline(cmd *cobra.Command, client *sdk.Client, tx *sdk.TransferTransaction) error {
	err := tx.FreezeWith(client)
	if err != nil {
		return err
	}
	err = tx.SignWithOperator(client)
	if err != nil {
		return err
	}

	encoded, err := sdk.EncodeAnyTransactionList([]*sdk.AnyTransaction{tx.ToAny()})
	if err != nil {
		return err
	}
	err = os.WriteFile(flagTransferOffline, encoded, 0600)
	if err != nil {
		return fmt.Errorf("could not write %s: %w", flagTransferOffline, err)
	}

	txID, _ := tx.TransactionID()
	fmt.Fprintf(cmd.OutOrStdout(), "%s\twritten to %s\n", txID, flagTransferOffline)
	return nil
}
