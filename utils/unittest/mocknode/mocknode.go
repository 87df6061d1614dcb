// Package mocknode runs in-process network nodes for tests. Nodes speak the same gRPC
// and CBOR wire protocol as real ones, over in-memory listeners, and answer with
// scripted responses.
package mocknode

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ledgerexec/ledgerexec/model/encoding/cbor"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
)

const bufSize = 1 << 20

// Call is one request received by a node. Exactly one of Query and Transaction is set.
type Call struct {
	Method      string
	Query       *wire.Query
	Transaction *wire.Transaction
}

// HandlerFunc answers a call with a wire response, or with an error sent as the gRPC
// status of the call.
type HandlerFunc func(ctx context.Context, call Call) (interface{}, error)

// Node is a scripted network node.
type Node struct {
	id       ledger.AccountID
	address  string
	listener *bufconn.Listener
	server   *grpc.Server

	mu      sync.Mutex
	handler HandlerFunc
	calls   []Call
}

func (n *Node) Identity() ledger.NodeIdentity {
	return ledger.NodeIdentity{AccountID: n.id, Address: n.address}
}

// Handle replaces the handler of the node.
func (n *Node) Handle(handler HandlerFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// Calls returns the calls received so far, in order.
func (n *Node) Calls() []Call {
	n.mu.Lock()
	defer n.mu.Unlock()
	calls := make([]Call, len(n.calls))
	copy(calls, n.calls)
	return calls
}

// CallCount returns the number of calls received so far.
func (n *Node) CallCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *Node) serve(_ interface{}, stream grpc.ServerStream) error {
	method, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return status.Error(codes.Internal, "no method in stream")
	}

	call := Call{Method: method}
	var err error
	if wire.IsQueryMethod(method) {
		call.Query = &wire.Query{}
		err = stream.RecvMsg(call.Query)
	} else {
		call.Transaction = &wire.Transaction{}
		err = stream.RecvMsg(call.Transaction)
	}
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "could not decode request: %v", err)
	}

	n.mu.Lock()
	n.calls = append(n.calls, call)
	handler := n.handler
	n.mu.Unlock()

	if handler == nil {
		return status.Errorf(codes.Unimplemented, "node %s has no handler", n.id)
	}
	resp, err := handler(stream.Context(), call)
	if err != nil {
		return err
	}
	return stream.SendMsg(resp)
}

// Network is a set of mock nodes reachable through one dialer.
type Network struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	down  map[string]bool
}

// NewNetwork starts one node per account number. Nodes are stopped when the test ends.
func NewNetwork(t testing.TB, accountNums ...uint64) *Network {
	network := &Network{
		nodes: make(map[string]*Node),
		down:  make(map[string]bool),
	}
	for _, num := range accountNums {
		network.start(t, ledger.NewAccountID(0, 0, num))
	}
	return network
}

func (nw *Network) start(t testing.TB, id ledger.AccountID) *Node {
	node := &Node{
		id:       id,
		address:  fmt.Sprintf("node-%s.bufnet:50211", id),
		listener: bufconn.Listen(bufSize),
	}
	node.server = grpc.NewServer(
		grpc.ForceServerCodec(cbor.NewCodec()),
		grpc.UnknownServiceHandler(node.serve),
	)
	go func() {
		_ = node.server.Serve(node.listener)
	}()
	t.Cleanup(node.server.Stop)

	nw.mu.Lock()
	nw.nodes[node.address] = node
	nw.mu.Unlock()
	return node
}

// Node returns the node with account 0.0.num.
func (nw *Network) Node(num uint64) *Node {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	for _, node := range nw.nodes {
		if node.id.Num == num {
			return node
		}
	}
	return nil
}

// Identities returns the identities of every node, in ascending account order.
func (nw *Network) Identities() ledger.NodeIdentityList {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	identities := make(ledger.NodeIdentityList, 0, len(nw.nodes))
	for _, node := range nw.nodes {
		identities = append(identities, node.Identity())
	}
	return identities.Sorted()
}

// SetDown makes dials to the node fail, as if it were offline. Connections already open
// are not affected.
func (nw *Network) SetDown(num uint64, down bool) {
	node := nw.Node(num)
	if node == nil {
		return
	}
	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.down[node.address] = down
}

// DialOption routes connections to the in-memory listeners of the network.
func (nw *Network) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, address string) (net.Conn, error) {
		nw.mu.RLock()
		node, ok := nw.nodes[address]
		down := nw.down[address]
		nw.mu.RUnlock()
		if !ok || down {
			return nil, fmt.Errorf("connection refused: %s", address)
		}
		return node.listener.DialContext(ctx)
	})
}
