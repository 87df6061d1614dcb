package unittest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// AccountIDFixture returns a random account ID in shard 0, realm 0, above the system
// account range.
func AccountIDFixture() ledger.AccountID {
	return ledger.NewAccountID(0, 0, 1001+uint64(rand.Int63n(1_000_000)))
}

// TransactionIDFixture returns a transaction ID paid by a random account.
func TransactionIDFixture() ledger.TransactionID {
	return ledger.TransactionID{
		AccountID:  AccountIDFixture(),
		ValidStart: time.Unix(1_690_000_000+rand.Int63n(1_000_000), rand.Int63n(1_000_000_000)).UTC(),
	}
}

// NodeIdentityFixture returns a node with account 0.0.num listening on a placeholder
// address.
func NodeIdentityFixture(num uint64) ledger.NodeIdentity {
	return ledger.NodeIdentity{
		AccountID: ledger.NewAccountID(0, 0, num),
		Address:   fmt.Sprintf("node%d.test:50211", num),
	}
}

// NodeIdentityListFixture returns n nodes with accounts 0.0.3 upwards, as on the
// real networks.
func NodeIdentityListFixture(n int) ledger.NodeIdentityList {
	nodes := make(ledger.NodeIdentityList, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, NodeIdentityFixture(uint64(3+i)))
	}
	return nodes
}
