package masking

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// protoAccessor resolves fields of a protobuf message by proto name, JSON
// name or text name. Only singular string fields are writable.
type protoAccessor struct {
	msg protoreflect.Message
}

func (a protoAccessor) field(name string) (protoreflect.FieldDescriptor, error) {
	fields := a.msg.Descriptor().Fields()
	fd := fields.ByName(protoreflect.Name(name))
	if fd == nil {
		fd = fields.ByJSONName(name)
	}
	if fd == nil {
		fd = fields.ByTextName(name)
	}
	if fd == nil {
		return nil, ErrFieldNotFound
	}
	return fd, nil
}

func (a protoAccessor) GetField(name string) (any, error) {
	fd, err := a.field(name)
	if err != nil {
		return nil, err
	}

	switch {
	case fd.IsMap():
		return nil, ErrUnsupportedValue
	case fd.IsList():
		if !a.msg.Has(fd) {
			return []any{}, nil
		}
		return protoListItems(fd, a.msg.Get(fd).List()), nil
	case fd.Kind() == protoreflect.StringKind:
		return a.msg.Get(fd).String(), nil
	case fd.Message() != nil:
		if !a.msg.Has(fd) {
			return nil, nil
		}
		return a.msg.Get(fd).Message().Interface(), nil
	default:
		return a.msg.Get(fd).Interface(), nil
	}
}

func (a protoAccessor) SetField(name string, value any) error {
	fd, err := a.field(name)
	if err != nil {
		return err
	}
	if fd.IsList() || fd.IsMap() || fd.Kind() != protoreflect.StringKind {
		return ErrUnsupportedValue
	}
	s, ok := value.(string)
	if !ok {
		return ErrUnsupportedValue
	}
	a.msg.Set(fd, protoreflect.ValueOfString(s))
	return nil
}

// protoListItems exposes repeated field items. Message items are returned as
// the messages held by the list, so writes into them are kept.
func protoListItems(fd protoreflect.FieldDescriptor, list protoreflect.List) []any {
	items := make([]any, list.Len())
	for i := range items {
		v := list.Get(i)
		if fd.Message() != nil {
			items[i] = v.Message().Interface()
			continue
		}
		items[i] = v.Interface()
	}
	return items
}
