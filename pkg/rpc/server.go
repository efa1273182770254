package rpc

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/codeready-toolchain/respmask/pkg/masking"
	"github.com/codeready-toolchain/respmask/pkg/version"
)

// Server is a gRPC server whose unary responses go through the masking
// interceptor. The standard health service is registered.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer creates a gRPC server. Extra options are applied after the
// masking interceptor.
func NewServer(engine *masking.Service, policy masking.Policy, opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(engine, policy)),
	}, opts...)

	s := &Server{
		grpcServer: grpc.NewServer(opts...),
		health:     health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(version.AppName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// GRPC returns the underlying server so applications can register services.
func (s *Server) GRPC() *grpc.Server {
	return s.grpcServer
}

// Serve listens on addr. Blocks until stopped.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.grpcServer.Serve(lis)
}

// ServeOn serves on the given listener. For testing.
func (s *Server) ServeOn(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop reports NOT_SERVING and waits for in-flight calls to finish.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
