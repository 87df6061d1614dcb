package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/sdk"
)

var flagBalanceContract bool

var balanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Print the hbar and token balances of an account or a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

func init() {
	balanceCmd.Flags().BoolVar(&flagBalanceContract, "contract", false, "the ID is a contract ID")
}

func runBalance(cmd *cobra.Command, args []string) error {
	query := sdk.NewAccountBalanceQuery()
	if flagBalanceContract {
		id, err := ledger.ContractIDFromString(args[0])
		if err != nil {
			return err
		}
		query.SetContractID(id)
	} else {
		id, err := ledger.AccountIDFromString(args[0])
		if err != nil {
			return err
		}
		query.SetAccountID(id)
	}

	client, stop, err := newClient()
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := commandContext()
	defer cancel()

	balance, err := query.Execute(ctx, client)
	if err != nil {
		return fmt.Errorf("could not get balance: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\t%s\n", args[0], balance.Hbars)

	tokens := make([]ledger.TokenID, 0, len(balance.Tokens))
	for token := range balance.Tokens {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].String() < tokens[j].String() })
	for _, token := range tokens {
		fmt.Fprintf(out, "  %s\t%d\n", token, balance.Tokens[token])
	}
	return nil
}
