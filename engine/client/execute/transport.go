package execute

import (
	"context"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// Transport sends one request to one node and decodes the answer into resp.
type Transport interface {
	Invoke(ctx context.Context, node ledger.NodeIdentity, method string, req, resp interface{}) error
}

// ConnectionProvider hands out connections to nodes, see connection.Manager.
type ConnectionProvider interface {
	GetConnection(address string) (*grpc.ClientConn, io.Closer, error)
	Remove(address string) bool
}

// GRPCTransport is a Transport over pooled gRPC connections.
type GRPCTransport struct {
	connections ConnectionProvider
}

var _ Transport = (*GRPCTransport)(nil)

func NewGRPCTransport(connections ConnectionProvider) *GRPCTransport {
	return &GRPCTransport{connections: connections}
}

// Invoke calls method on the node. Failing to connect is reported as codes.Unavailable.
// A connection that turned out to be unavailable is dropped from the pool so that the
// next request to the node dials again.
func (t *GRPCTransport) Invoke(ctx context.Context, node ledger.NodeIdentity, method string, req, resp interface{}) error {
	conn, closer, err := t.connections.GetConnection(node.Address)
	if err != nil {
		return status.Errorf(codes.Unavailable, "could not connect to node %s: %v", node, err)
	}
	defer closer.Close()

	err = conn.Invoke(ctx, method, req, resp)
	if status.Code(err) == codes.Unavailable {
		t.connections.Remove(node.Address)
	}
	return err
}
