package execute_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/engine/client/connection"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/module/metrics"
	"github.com/ledgerexec/ledgerexec/network"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
	"github.com/ledgerexec/ledgerexec/utils/unittest/mocknode"
)

// balanceExecutable asks for the balance of an account.
type balanceExecutable struct {
	account ledger.AccountID
}

func (x *balanceExecutable) NodeAccountIDs() []ledger.AccountID { return nil }

func (x *balanceExecutable) TransactionID() (ledger.TransactionID, bool) {
	return ledger.TransactionID{}, false
}

func (x *balanceExecutable) MakeRequest(ledger.NodeIdentity, int) (*wire.Query, error) {
	return &wire.Query{CryptoGetAccountBalance: &wire.CryptoGetAccountBalanceQuery{
		AccountID: wire.NewAccountIDPtr(x.account),
	}}, nil
}

func (x *balanceExecutable) NewResponse() *wire.Response { return &wire.Response{} }

func (x *balanceExecutable) Method() string { return wire.MethodCryptoGetBalance }

func (x *balanceExecutable) ResponseStatus(resp *wire.Response) ledger.Status {
	header := resp.Header()
	if header == nil {
		return ledger.StatusUnknown
	}
	return ledger.Status(header.NodeTransactionPrecheckCode)
}

func TestExecuteOverGRPC(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3, 4)
	account := unittest.AccountIDFixture()
	nodes.SetDown(3, true)
	nodes.Node(4).Handle(mocknode.Sequence(
		mocknode.QueryPrecheck(wire.MethodCryptoGetBalance, ledger.StatusBusy, 0),
		mocknode.BalanceResponse(account, ledger.NewHbar(12)),
	))

	collector := metrics.NewNoopCollector()
	cache, err := connection.NewCache(unittest.Logger(), collector, 8)
	require.NoError(t, err)
	connConfig := connection.DefaultConfig()
	connConfig.Timeout = time.Second
	manager := connection.NewManager(unittest.Logger(), collector, cache, connConfig, nodes.DialOption())
	defer manager.Close()

	directory := network.NewDirectory(unittest.Logger(), nodes.Identities())
	engine := execute.New(unittest.Logger(), fastConfig(), directory, execute.NewGRPCTransport(manager), collector)

	result, err := execute.Execute[*wire.Query, *wire.Response](context.Background(), engine, &balanceExecutable{account: account})
	require.NoError(t, err)

	assert.Equal(t, ledger.NewAccountID(0, 0, 4), result.Node.AccountID)
	assert.Equal(t, 3, result.Attempts, "node 3 once, then node 4 busy and accepted")
	assert.Equal(t, ledger.NewHbar(12), result.Response.CryptoGetAccountBalance.ToLedger().Hbars)
	assert.Equal(t, 0, nodes.Node(3).CallCount())
	assert.Equal(t, 2, nodes.Node(4).CallCount())
	assert.False(t, directory.IsHealthy(ledger.NewAccountID(0, 0, 3)))
}
