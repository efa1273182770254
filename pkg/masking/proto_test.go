package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/sourcecontextpb"
	"google.golang.org/protobuf/types/known/typepb"
)

func newTestProtoType() *typepb.Type {
	return &typepb.Type{
		Name: "Account42",
		Fields: []*typepb.Field{
			{Name: "iban", TypeUrl: "DE89370400440532013000", Number: 1},
			{Name: "owner", TypeUrl: "Jane Roe", Number: 2},
		},
		Oneofs:        []string{"Keep"},
		SourceContext: &sourcecontextpb.SourceContext{FileName: "bank/v1/Account.proto"},
	}
}

func TestProtoAccessor(t *testing.T) {
	svc := NewService()

	t.Run("singular string field", func(t *testing.T) {
		msg := newTestProtoType()
		svc.ApplyMasking(msg, "name")
		assert.Equal(t, "Xxxxxxx**", msg.Name)
	})

	t.Run("repeated message field", func(t *testing.T) {
		msg := newTestProtoType()
		svc.ApplyMasking(msg, "fields(List).type_url")
		assert.Equal(t, "XX********************", msg.Fields[0].TypeUrl)
		assert.Equal(t, "Xxxx Xxx", msg.Fields[1].TypeUrl)
		assert.Equal(t, "iban", msg.Fields[0].Name)
		assert.Equal(t, int32(1), msg.Fields[0].Number)
	})

	t.Run("json name with capture", func(t *testing.T) {
		msg := newTestProtoType()
		svc.ApplyMasking(msg, `fields(List).typeUrl::^[A-Z]{2}\d{2}(\d+)`)
		assert.Equal(t, "DE89******************", msg.Fields[0].TypeUrl)
		assert.Equal(t, "Jane Roe", msg.Fields[1].TypeUrl)
	})

	t.Run("nested message", func(t *testing.T) {
		msg := newTestProtoType()
		svc.ApplyMasking(msg, "source_context.file_name")
		assert.Equal(t, "xxxx/x*/Xxxxxxx.xxxxx", msg.SourceContext.FileName)
	})

	t.Run("unset nested message", func(t *testing.T) {
		msg := &typepb.Type{Name: "x"}
		assert.NotPanics(t, func() {
			svc.ApplyMasking(msg, "source_context.file_name")
		})
		assert.Nil(t, msg.SourceContext)
	})

	t.Run("repeated string and non-string fields untouched", func(t *testing.T) {
		msg := newTestProtoType()
		svc.ApplyMasking(msg, "oneofs,fields(List).number,syntax,missing")
		assert.Equal(t, []string{"Keep"}, msg.Oneofs)
		assert.Equal(t, int32(2), msg.Fields[1].Number)
	})
}

func TestMaskPayload_ProtoCollection(t *testing.T) {
	svc := NewService()
	payload := []*typepb.Type{newTestProtoType(), newTestProtoType()}

	svc.MaskPayload(payload, func(typeName string) string {
		if typeName == "google.protobuf.Type" {
			return "fields(List).name"
		}
		return ""
	})

	for _, msg := range payload {
		require.Len(t, msg.Fields, 2)
		assert.Equal(t, "xxxx", msg.Fields[0].Name)
		assert.Equal(t, "xxxxx", msg.Fields[1].Name)
	}
}
