// Package api is the client side of the account service: a gRPC connection
// with the generated AccountService stub and the dial options it needs.
package api

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Client is an AccountService client that owns its connection.
type Client struct {
	pb.AccountServiceClient
	conn *grpc.ClientConn
}

// DialOptions are the options every AccountService connection needs.
func DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithChainUnaryInterceptor(requestIDInterceptor),
	}
}

// NewClient connects to addr without TLS. Extra options are appended.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	all := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, DialOptions()...)
	all = append(all, opts...)
	conn, err := grpc.NewClient(addr, all...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	return &Client{AccountServiceClient: pb.NewAccountServiceClient(conn), conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// requestIDInterceptor tags each call with a fresh request id unless the
// caller already set one.
func requestIDInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	md, _ := metadata.FromOutgoingContext(ctx)
	if len(md.Get(common.RequestIDHeaderName)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDHeaderName, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}
