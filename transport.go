package hashgraph

import (
	"context"

	"github.com/alexdcox/hashgraph-go/hapi"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Conn invokes a unary method with an already encoded request and returns
// the encoded response.
type Conn interface {
	Invoke(ctx context.Context, method hapi.Method, request []byte) (response []byte, err error)
	Close() error
}

// Dialer opens a Conn to host:port.
type Dialer func(ctx context.Context, address string) (Conn, error)

// RawFrame is a pre-encoded protobuf message passed through gRPC untouched.
type RawFrame []byte

// RawCodec lets gRPC carry messages encoded by the hapi package.
type RawCodec struct{}

func (RawCodec) Marshal(v any) ([]byte, error) {
	switch frame := v.(type) {
	case RawFrame:
		return frame, nil
	case *RawFrame:
		return *frame, nil
	}
	return nil, errors.Errorf("raw codec cannot marshal %T", v)
}

func (RawCodec) Unmarshal(data []byte, v any) error {
	frame, ok := v.(*RawFrame)
	if !ok {
		return errors.Errorf("raw codec cannot unmarshal into %T", v)
	}
	*frame = append((*frame)[:0], data...)
	return nil
}

// Name reports "proto" so the content type matches what nodes expect.
func (RawCodec) Name() string {
	return "proto"
}

// GrpcDialer connects over plaintext gRPC unless options override the
// transport credentials.
func GrpcDialer(options ...grpc.DialOption) Dialer {
	return func(ctx context.Context, address string) (Conn, error) {
		opts := append([]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(grpc.ForceCodec(RawCodec{})),
		}, options...)

		cc, err := grpc.NewClient(address, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create grpc client for %s", address)
		}

		return &grpcConn{cc: cc}, nil
	}
}

type grpcConn struct {
	cc *grpc.ClientConn
}

func (c *grpcConn) Invoke(ctx context.Context, method hapi.Method, request []byte) ([]byte, error) {
	var response RawFrame
	if err := c.cc.Invoke(ctx, string(method), RawFrame(request), &response); err != nil {
		return nil, errors.Wrapf(ErrTransport, "%s: %v", method, err)
	}
	return response, nil
}

func (c *grpcConn) Close() error {
	return errors.WithStack(c.cc.Close())
}
