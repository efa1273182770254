package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/typepb"

	"github.com/codeready-toolchain/respmask/pkg/masking"
	"github.com/codeready-toolchain/respmask/pkg/version"
)

// accountsServiceDesc is a hand-written service returning a fixed message.
var accountsServiceDesc = grpc.ServiceDesc{
	ServiceName: "respmask.test.Accounts",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Get",
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(emptypb.Empty)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := func(context.Context, any) (any, error) { return newTestType(), nil }
			if interceptor == nil {
				return h(ctx, in)
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: testMethod}, h)
		},
	}},
}

func startTestServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	s := NewServer(masking.NewService(), testPolicy())
	s.GRPC().RegisterService(&accountsServiceDesc, struct{}{})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.ServeOn(lis) }()
	t.Cleanup(s.GracefulStop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServerMasksResponses(t *testing.T) {
	conn := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var resp typepb.Type
	require.NoError(t, conn.Invoke(ctx, testMethod, &emptypb.Empty{}, &resp))
	assert.Equal(t, "xxxx.Xxxxxxx", resp.GetName())
	assert.Equal(t, "type.googleapis.com/xxxx.Xxxx", resp.GetFields()[0].GetTypeUrl())
}

func TestServerHealth(t *testing.T) {
	conn := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := healthpb.NewHealthClient(conn)
	for _, service := range []string{"", version.AppName} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}
