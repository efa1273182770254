package rpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/typepb"

	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/masking"
)

const testMethod = "/respmask.test.Accounts/Get"

func testPolicy() *config.PolicyRegistry {
	return config.NewPolicyRegistry(map[string]string{
		config.PropertyKey(testMethod):             "true",
		config.PropertyKey("/respmask.test.X/Y"):   "false",
		config.PropertyKey("google.protobuf.Type"): "name,fields(List).type_url::^type.googleapis.com/(.+)$",
	})
}

func newTestType() *typepb.Type {
	return &typepb.Type{
		Name: "bank.Account",
		Fields: []*typepb.Field{
			{Name: "iban", TypeUrl: "type.googleapis.com/bank.Iban"},
		},
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	interceptor := UnaryServerInterceptor(masking.NewService(), testPolicy())

	call := func(method string, resp any, err error) (any, error) {
		handler := func(context.Context, any) (any, error) { return resp, err }
		return interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	}

	t.Run("enabled method is masked", func(t *testing.T) {
		got, err := call(testMethod, newTestType(), nil)
		require.NoError(t, err)

		msg := got.(*typepb.Type)
		assert.Equal(t, "xxxx.Xxxxxxx", msg.GetName())
		assert.Equal(t, "type.googleapis.com/xxxx.Xxxx", msg.GetFields()[0].GetTypeUrl())
		assert.Equal(t, "iban", msg.GetFields()[0].GetName())
	})

	t.Run("disabled method passes through", func(t *testing.T) {
		got, err := call("/respmask.test.X/Y", newTestType(), nil)
		require.NoError(t, err)
		assert.Equal(t, "bank.Account", got.(*typepb.Type).GetName())
	})

	t.Run("unknown method passes through", func(t *testing.T) {
		got, err := call("/respmask.test.X/Z", newTestType(), nil)
		require.NoError(t, err)
		assert.Equal(t, "bank.Account", got.(*typepb.Type).GetName())
	})

	t.Run("errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		got, err := call(testMethod, nil, boom)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	})
}
