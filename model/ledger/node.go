package ledger

import (
	"fmt"
	"sort"
)

// NodeIdentity is one ingress node of the network: where to reach it, and the account it
// is paid to.
type NodeIdentity struct {
	AccountID AccountID
	Address   string
}

func (n NodeIdentity) String() string {
	return fmt.Sprintf("%s(%s)", n.AccountID, n.Address)
}

// NodeIdentityList is an ordered list of nodes.
type NodeIdentityList []NodeIdentity

// ByAccountID returns the node with the given account ID.
func (l NodeIdentityList) ByAccountID(id AccountID) (NodeIdentity, bool) {
	for _, node := range l {
		if node.AccountID.Equal(id) {
			return node, true
		}
	}
	return NodeIdentity{}, false
}

// AccountIDs returns the account IDs of the nodes, in order.
func (l NodeIdentityList) AccountIDs() []AccountID {
	ids := make([]AccountID, 0, len(l))
	for _, node := range l {
		ids = append(ids, node.AccountID)
	}
	return ids
}

// Sorted returns a copy of the list ordered by account ID.
func (l NodeIdentityList) Sorted() NodeIdentityList {
	sorted := make(NodeIdentityList, len(l))
	copy(sorted, l)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AccountID.Compare(sorted[j].AccountID) < 0
	})
	return sorted
}
