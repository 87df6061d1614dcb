package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/sdk"
)

var flagReceiptWait bool

var receiptCmd = &cobra.Command{
	Use:   "receipt <transaction-id>",
	Short: "Print the receipt of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceipt,
}

func init() {
	receiptCmd.Flags().BoolVar(&flagReceiptWait, "wait", false, "wait until the receipt is final")
}

func runReceipt(cmd *cobra.Command, args []string) error {
	txID, err := ledger.TransactionIDFromString(args[0])
	if err != nil {
		return err
	}

	client, stop, err := newClient()
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := commandContext()
	defer cancel()

	var receipt ledger.Receipt
	if flagReceiptWait {
		receipt, err = client.WaitForReceipt(ctx, txID)
	} else {
		receipt, err = sdk.NewTransactionReceiptQuery().SetTransactionID(txID).Execute(ctx, client)
	}
	if err != nil {
		return fmt.Errorf("could not get receipt: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status\t%s\n", receipt.Status)
	if receipt.AccountID != nil {
		fmt.Fprintf(out, "account\t%s\n", receipt.AccountID)
	}
	if receipt.ContractID != nil {
		fmt.Fprintf(out, "contract\t%s\n", receipt.ContractID)
	}
	if receipt.FileID != nil {
		fmt.Fprintf(out, "file\t%s\n", receipt.FileID)
	}
	if receipt.TokenID != nil {
		fmt.Fprintf(out, "token\t%s\n", receipt.TokenID)
	}
	return nil
}
