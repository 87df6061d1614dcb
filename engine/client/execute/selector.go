package execute

import (
	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// nodeSelector walks the eligible nodes of one request in round-robin order.
//
// Nodes found unreachable during the request are skipped for the rest of it. The
// selector lives on the stack of a single Execute call and is not safe for concurrent use.
type nodeSelector struct {
	nodes       []ledger.NodeIdentity
	unreachable []bool
	remaining   int
	index       int
}

// newNodeSelector orders nodes healthy first, keeping the given order within each group,
// so that the first attempt goes to the first healthy node.
func newNodeSelector(nodes []ledger.NodeIdentity, isHealthy func(ledger.AccountID) bool) *nodeSelector {
	ordered := make([]ledger.NodeIdentity, 0, len(nodes))
	var unhealthy []ledger.NodeIdentity
	for _, node := range nodes {
		if isHealthy(node.AccountID) {
			ordered = append(ordered, node)
		} else {
			unhealthy = append(unhealthy, node)
		}
	}
	ordered = append(ordered, unhealthy...)

	return &nodeSelector{
		nodes:       ordered,
		unreachable: make([]bool, len(ordered)),
		remaining:   len(ordered),
	}
}

// Current returns the node of the next attempt, false once every node is unreachable.
func (s *nodeSelector) Current() (ledger.NodeIdentity, bool) {
	if s.remaining == 0 {
		return ledger.NodeIdentity{}, false
	}
	return s.nodes[s.index], true
}

// Advance moves to the next node that was not found unreachable.
func (s *nodeSelector) Advance() {
	if s.remaining == 0 {
		return
	}
	for i := 1; i <= len(s.nodes); i++ {
		next := (s.index + i) % len(s.nodes)
		if !s.unreachable[next] {
			s.index = next
			return
		}
	}
}

// MarkUnreachable excludes the current node from the rest of the request and moves on.
func (s *nodeSelector) MarkUnreachable() {
	if s.remaining == 0 || s.unreachable[s.index] {
		return
	}
	s.unreachable[s.index] = true
	s.remaining--
	s.Advance()
}

// Len returns the number of eligible nodes, reachable or not.
func (s *nodeSelector) Len() int {
	return len(s.nodes)
}
