package sdk

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerexec/ledgerexec/engine/client/connection"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/engine/client/receipt"
	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// NodeAddress is a statically configured network node.
type NodeAddress struct {
	AccountID string `validate:"required" mapstructure:"account-id"`
	Address   string `validate:"required" mapstructure:"address"`
}

// Config configures a Client. Either Network or MirrorURL must be set.
type Config struct {
	Network []NodeAddress `validate:"required_without=MirrorURL,dive" mapstructure:"network"`

	// MirrorURL is the base URL of a mirror node REST API the address book is read from.
	MirrorURL string `validate:"omitempty,url" mapstructure:"mirror-url"`
	// MirrorRefreshInterval is how often the address book is read again. 0 reads it once.
	MirrorRefreshInterval time.Duration `validate:"gte=0" mapstructure:"mirror-refresh-interval"`
	MirrorTimeout         time.Duration `validate:"gt=0" mapstructure:"mirror-timeout"`

	AttemptTimeout time.Duration `validate:"gt=0" mapstructure:"attempt-timeout"`
	MaxAttempts    int           `validate:"gte=1" mapstructure:"max-attempts"`
	MinBackoff     time.Duration `validate:"gt=0" mapstructure:"min-backoff"`
	MaxBackoff     time.Duration `validate:"gtefield=MinBackoff" mapstructure:"max-backoff"`
	JitterPercent  uint64        `validate:"lte=100" mapstructure:"jitter-percent"`
	RequestTimeout time.Duration `validate:"gt=0" mapstructure:"request-timeout"`

	ReceiptPollInterval time.Duration `validate:"gt=0" mapstructure:"receipt-poll-interval"`
	ReceiptTimeout      time.Duration `validate:"gtefield=ReceiptPollInterval" mapstructure:"receipt-timeout"`

	// MaxQueryPayment caps the cost of paid queries whose payment was not set explicitly.
	MaxQueryPayment ledger.Hbar `validate:"gte=0" mapstructure:"max-query-payment"`
	// DefaultMaxTransactionFee overrides the per-type default fee of transactions. 0
	// keeps the per-type defaults.
	DefaultMaxTransactionFee ledger.Hbar `validate:"gte=0" mapstructure:"default-max-transaction-fee"`

	Connection connection.Config `mapstructure:"connection"`
}

// DefaultConfig returns the defaults for everything but the network.
func DefaultConfig() Config {
	engine := execute.DefaultConfig()
	poll := receipt.DefaultConfig()
	return Config{
		MirrorTimeout:       10 * time.Second,
		AttemptTimeout:      engine.AttemptTimeout,
		MaxAttempts:         engine.MaxAttempts,
		MinBackoff:          engine.MinBackoff,
		MaxBackoff:          engine.MaxBackoff,
		JitterPercent:       engine.JitterPercent,
		RequestTimeout:      engine.MaxElapsed,
		ReceiptPollInterval: poll.Interval,
		ReceiptTimeout:      poll.Timeout,
		MaxQueryPayment:     ledger.NewHbar(1),
		Connection:          connection.DefaultConfig(),
	}
}

var validate = validator.New()

// Validate checks the config for missing or out-of-range values.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}

// nodes parses the static network.
func (c Config) nodes() (ledger.NodeIdentityList, error) {
	nodes := make(ledger.NodeIdentityList, 0, len(c.Network))
	for _, node := range c.Network {
		id, err := ledger.AccountIDFromString(node.AccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid node account id %q: %w", node.AccountID, err)
		}
		nodes = append(nodes, ledger.NodeIdentity{AccountID: id, Address: node.Address})
	}
	return nodes, nil
}

func (c Config) engineConfig() execute.Config {
	config := execute.DefaultConfig()
	config.AttemptTimeout = c.AttemptTimeout
	config.MaxAttempts = c.MaxAttempts
	config.MinBackoff = c.MinBackoff
	config.MaxBackoff = c.MaxBackoff
	config.JitterPercent = c.JitterPercent
	config.MaxElapsed = c.RequestTimeout
	return config
}

func (c Config) receiptConfig() receipt.Config {
	return receipt.Config{
		Interval: c.ReceiptPollInterval,
		Timeout:  c.ReceiptTimeout,
	}
}
