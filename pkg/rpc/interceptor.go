// Package rpc wires the masking engine into gRPC servers.
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/codeready-toolchain/respmask/pkg/masking"
)

// UnaryServerInterceptor masks the response message of every method the
// policy enables. The handler identity is the full method name
// ("/package.Service/Method"). Error responses pass through untouched.
func UnaryServerInterceptor(engine *masking.Service, policy masking.Policy) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil || resp == nil {
			return resp, err
		}
		engine.MaskResponse(policy, info.FullMethod, resp)
		return resp, nil
	}
}
