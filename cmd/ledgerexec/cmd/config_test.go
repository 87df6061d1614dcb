package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/sdk"
)

func TestParseNodes(t *testing.T) {
	nodes, err := parseNodes([]string{"0.0.3=127.0.0.1:50211", "0.0.4=node4:50211"})
	require.NoError(t, err)
	assert.Equal(t, []sdk.NodeAddress{
		{AccountID: "0.0.3", Address: "127.0.0.1:50211"},
		{AccountID: "0.0.4", Address: "node4:50211"},
	}, nodes)

	for _, invalid := range []string{"0.0.3", "=127.0.0.1:50211", "0.0.3=", "three=127.0.0.1:50211"} {
		_, err := parseNodes([]string{invalid})
		assert.Error(t, err, invalid)
	}
}

func TestLoadClientConfigDefaults(t *testing.T) {
	config, err := loadClientConfig(viper.New(), []string{"0.0.3=127.0.0.1:50211"})
	require.NoError(t, err)

	expected := sdk.DefaultConfig()
	expected.Network = []sdk.NodeAddress{{AccountID: "0.0.3", Address: "127.0.0.1:50211"}}
	assert.Equal(t, expected, config)
	assert.NoError(t, config.Validate())
}

func TestLoadClientConfigFromFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
network:
  - account-id: 0.0.3
    address: 127.0.0.1:50211
  - account-id: 0.0.4
    address: 127.0.0.1:50212
max-attempts: 3
attempt-timeout: 2s
receipt-poll-interval: 250ms
max-query-payment: "0.5"
default-max-transaction-fee: 2
connection:
  circuit-breaker:
    enabled: true
`)))

	config, err := loadClientConfig(v, nil)
	require.NoError(t, err)

	assert.Len(t, config.Network, 2)
	assert.Equal(t, "0.0.4", config.Network[1].AccountID)
	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, 2*time.Second, config.AttemptTimeout)
	assert.Equal(t, 250*time.Millisecond, config.ReceiptPollInterval)
	assert.Equal(t, ledger.NewHbar(0.5), config.MaxQueryPayment)
	assert.Equal(t, ledger.NewHbar(2), config.DefaultMaxTransactionFee)
	assert.True(t, config.Connection.CircuitBreaker.Enabled)
	assert.Equal(t, sdk.DefaultConfig().ReceiptTimeout, config.ReceiptTimeout, "unset keys keep their default")
}

func TestLoadClientConfigFlagsOverrideNetwork(t *testing.T) {
	v := viper.New()
	v.Set("network", []map[string]interface{}{{"account-id": "0.0.3", "address": "a:1"}})

	config, err := loadClientConfig(v, []string{"0.0.9=b:2"})
	require.NoError(t, err)
	assert.Equal(t, []sdk.NodeAddress{{AccountID: "0.0.9", Address: "b:2"}}, config.Network)
}

func TestLoadClientConfigRejectsBadAmount(t *testing.T) {
	v := viper.New()
	v.Set("max-query-payment", "lots")

	_, err := loadClientConfig(v, nil)
	assert.Error(t, err)
}
