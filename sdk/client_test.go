package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/model/encoding/cbor"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
	"github.com/ledgerexec/ledgerexec/utils/unittest/mocknode"
)

func testConfig(nodes *mocknode.Network) Config {
	config := DefaultConfig()
	for _, node := range nodes.Identities() {
		config.Network = append(config.Network, NodeAddress{AccountID: node.AccountID.String(), Address: node.Address})
	}
	config.AttemptTimeout = time.Second
	config.MinBackoff = time.Millisecond
	config.MaxBackoff = 5 * time.Millisecond
	config.RequestTimeout = 5 * time.Second
	config.ReceiptPollInterval = 10 * time.Millisecond
	config.ReceiptTimeout = 2 * time.Second
	return config
}

func newTestClient(t *testing.T, nodes *mocknode.Network) *Client {
	client, err := NewClient(unittest.Logger(), testConfig(nodes), WithDialOptions(nodes.DialOption()))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

// withOperator sets a fresh operator on client and returns its key and account.
func withOperator(t *testing.T, client *Client) (*crypto.PrivateKey, ledger.AccountID) {
	key := unittest.PrivateKeyFixture(t, crypto.ED25519)
	account := unittest.AccountIDFixture()
	client.SetOperator(account, key)
	return key, account
}

// byMethod routes calls to handlers by gRPC method.
func byMethod(handlers map[string]mocknode.HandlerFunc) mocknode.HandlerFunc {
	return func(ctx context.Context, call mocknode.Call) (interface{}, error) {
		handler, ok := handlers[call.Method]
		if !ok {
			return mocknode.Precheck(ledger.StatusNotSupported), nil
		}
		return handler(ctx, call)
	}
}

// decodeSigned decodes a signed transaction and its body.
func decodeSigned(t *testing.T, tx *wire.Transaction) (wire.SignedTransaction, wire.TransactionBody) {
	var signed wire.SignedTransaction
	require.NoError(t, cbor.DecMode.Unmarshal(tx.SignedTransactionBytes, &signed))
	var body wire.TransactionBody
	require.NoError(t, cbor.DecMode.Unmarshal(signed.BodyBytes, &body))
	return signed, body
}

func TestConfigValidation(t *testing.T) {
	t.Run("defaults need a network", func(t *testing.T) {
		err := DefaultConfig().Validate()
		assert.Error(t, err)
	})

	t.Run("static network", func(t *testing.T) {
		config := DefaultConfig()
		config.Network = []NodeAddress{{AccountID: "0.0.3", Address: "127.0.0.1:50211"}}
		assert.NoError(t, config.Validate())
	})

	t.Run("mirror instead of network", func(t *testing.T) {
		config := DefaultConfig()
		config.MirrorURL = "https://mirror.example.com"
		assert.NoError(t, config.Validate())
	})

	t.Run("invalid values", func(t *testing.T) {
		config := DefaultConfig()
		config.Network = []NodeAddress{{AccountID: "0.0.3", Address: "127.0.0.1:50211"}}
		config.MaxAttempts = 0
		assert.Error(t, config.Validate())

		config = DefaultConfig()
		config.Network = []NodeAddress{{AccountID: "0.0.3"}}
		assert.Error(t, config.Validate(), "node without address")

		config = DefaultConfig()
		config.Network = []NodeAddress{{AccountID: "0.0.3", Address: "127.0.0.1:50211"}}
		config.MaxBackoff = config.MinBackoff / 2
		assert.Error(t, config.Validate())
	})

	t.Run("malformed node account", func(t *testing.T) {
		config := DefaultConfig()
		config.Network = []NodeAddress{{AccountID: "three", Address: "127.0.0.1:50211"}}
		_, err := NewClient(unittest.Logger(), config)
		assert.Error(t, err)
	})
}

func TestClientNodes(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 5, 3, 4)
	client := newTestClient(t, nodes)

	assert.Equal(t, []ledger.AccountID{
		ledger.NewAccountID(0, 0, 3),
		ledger.NewAccountID(0, 0, 4),
		ledger.NewAccountID(0, 0, 5),
	}, client.Nodes().AccountIDs())
	assert.Nil(t, client.Operator())

	client.Close()
	client.Close()
}

func TestClientReadsMirrorOnceAtStartup(t *testing.T) {
	requests := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Inc()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nodes":[{"node_account_id":"0.0.3","service_endpoints":[{"ip_address_v4":"127.0.0.1","port":50211}]}],"links":{"next":null}}`))
	}))
	defer server.Close()

	for name, interval := range map[string]time.Duration{"once": 0, "periodic": time.Hour} {
		t.Run(name, func(t *testing.T) {
			requests.Store(0)
			config := DefaultConfig()
			config.MirrorURL = server.URL
			config.MirrorRefreshInterval = interval

			client, err := NewClient(unittest.Logger(), config)
			require.NoError(t, err)
			defer client.Close()

			assert.Equal(t, []ledger.AccountID{ledger.NewAccountID(0, 0, 3)}, client.Nodes().AccountIDs())
			assert.Never(t, func() bool { return requests.Load() > 1 }, 100*time.Millisecond, 5*time.Millisecond,
				"the address book read at startup is not read again right away")
		})
	}
}
