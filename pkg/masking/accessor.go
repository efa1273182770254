package masking

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"google.golang.org/protobuf/proto"
)

var (
	// ErrFieldNotFound indicates the node has no field with the requested name
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldNotSettable indicates the field was read but cannot be written
	ErrFieldNotSettable = errors.New("field not settable")

	// ErrUnsupportedValue indicates the field holds or expects a value the accessor cannot handle
	ErrUnsupportedValue = errors.New("unsupported field value")
)

// Accessor resolves named fields on a record whose type is only known at run
// time. Types may implement it directly (hand-written or generated accessors).
type Accessor interface {
	// GetField returns the value of the named field.
	GetField(name string) (any, error)

	// SetField replaces the value of the named field.
	SetField(name string, value any) error
}

// TypeNamer lets a type choose the name its masking policy is looked up by.
type TypeNamer interface {
	MaskingTypeName() string
}

// FieldAccessor is a get/set pair for one field of a registered type.
// A nil Set makes the field read-only.
type FieldAccessor struct {
	Get func(obj any) (any, error)
	Set func(obj any, value any) error
}

// AccessorRegistry maps type names to explicitly registered field accessors.
// Registered accessors take precedence over reflective struct access.
// Populate it at startup; lookups are safe for concurrent use.
type AccessorRegistry struct {
	types map[string]map[string]FieldAccessor
	mu    sync.RWMutex
}

// NewAccessorRegistry creates an empty accessor registry
func NewAccessorRegistry() *AccessorRegistry {
	return &AccessorRegistry{
		types: make(map[string]map[string]FieldAccessor),
	}
}

// Register adds (or replaces) the accessors of typeName.
func (r *AccessorRegistry) Register(typeName string, fields map[string]FieldAccessor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(map[string]FieldAccessor, len(fields))
	for name, fa := range fields {
		copied[name] = fa
	}
	r.types[typeName] = copied
}

// Has checks if accessors are registered for typeName
func (r *AccessorRegistry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.types[typeName]
	return exists
}

// Len returns the number of registered types
func (r *AccessorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

func (r *AccessorRegistry) lookup(typeName string) (map[string]FieldAccessor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields, ok := r.types[typeName]
	return fields, ok
}

// TypeName returns the policy lookup name of v: MaskingTypeName when v
// implements TypeNamer, the message full name for protobuf messages, and
// "<package path>.<type name>" otherwise. Unnamed types yield "".
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	if n, ok := v.(TypeNamer); ok {
		return n.MaskingTypeName()
	}
	if m, ok := v.(proto.Message); ok {
		return string(m.ProtoReflect().Descriptor().FullName())
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// accessorFor picks the accessor for node, or nil when node is not a record.
func (s *Service) accessorFor(node any) Accessor {
	if a, ok := node.(Accessor); ok {
		return a
	}
	if s.accessors != nil {
		if fields, ok := s.accessors.lookup(TypeName(node)); ok {
			return registeredAccessor{obj: node, fields: fields}
		}
	}
	if m, ok := node.(proto.Message); ok {
		return protoAccessor{msg: m.ProtoReflect()}
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String && !rv.IsNil() {
			return mapAccessor{m: rv}
		}
	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return nil
		}
		elem := rv.Elem()
		return structAccessor{v: elem, fields: s.structs.fields(elem.Type())}
	case reflect.Struct:
		// Readable only; writes fail because the copy is not addressable.
		return structAccessor{v: rv, fields: s.structs.fields(rv.Type())}
	}
	return nil
}

type registeredAccessor struct {
	obj    any
	fields map[string]FieldAccessor
}

func (a registeredAccessor) GetField(name string) (any, error) {
	fa, ok := a.fields[name]
	if !ok || fa.Get == nil {
		return nil, ErrFieldNotFound
	}
	return fa.Get(a.obj)
}

func (a registeredAccessor) SetField(name string, value any) error {
	fa, ok := a.fields[name]
	if !ok {
		return ErrFieldNotFound
	}
	if fa.Set == nil {
		return ErrFieldNotSettable
	}
	return fa.Set(a.obj, value)
}

type mapAccessor struct {
	m reflect.Value
}

func (a mapAccessor) key(name string) reflect.Value {
	return reflect.ValueOf(name).Convert(a.m.Type().Key())
}

func (a mapAccessor) GetField(name string) (any, error) {
	v := a.m.MapIndex(a.key(name))
	if !v.IsValid() {
		return nil, ErrFieldNotFound
	}
	return exportValue(v), nil
}

func (a mapAccessor) SetField(name string, value any) error {
	elem := reflect.New(a.m.Type().Elem()).Elem()
	if err := assign(elem, value); err != nil {
		return err
	}
	a.m.SetMapIndex(a.key(name), elem)
	return nil
}

type structAccessor struct {
	v      reflect.Value
	fields *structFields
}

func (a structAccessor) field(name string) (reflect.Value, error) {
	index, ok := a.fields.byName[name]
	if !ok {
		return reflect.Value{}, ErrFieldNotFound
	}
	fv, err := a.v.FieldByIndexErr(index)
	if err != nil {
		// nil embedded pointer on the way to a promoted field
		return reflect.Value{}, ErrFieldNotFound
	}
	return fv, nil
}

func (a structAccessor) GetField(name string) (any, error) {
	fv, err := a.field(name)
	if err != nil {
		return nil, err
	}
	return exportValue(fv), nil
}

func (a structAccessor) SetField(name string, value any) error {
	fv, err := a.field(name)
	if err != nil {
		return err
	}
	if !fv.CanSet() {
		return ErrFieldNotSettable
	}
	return assign(fv, value)
}

// exportValue converts a reflected field into the value the engine walks:
// strings of any string kind become plain strings, addressable structs and
// arrays become pointers so that nested writes land in the original.
func exportValue(v reflect.Value) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if v.Elem().Kind() == reflect.String {
			return v.Elem().String()
		}
	case reflect.Struct, reflect.Array:
		if v.CanAddr() {
			return v.Addr().Interface()
		}
	case reflect.Invalid:
		return nil
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// assign stores value into v. Strings keep v's own string type; anything else
// must be assignable as is.
func assign(v reflect.Value, value any) error {
	if s, ok := value.(string); ok {
		return setString(v, s)
	}
	nv := reflect.ValueOf(value)
	if !nv.IsValid() || !nv.Type().AssignableTo(v.Type()) {
		return ErrUnsupportedValue
	}
	v.Set(nv)
	return nil
}

// needsCopy reports whether value is a struct held by value that the
// reflective accessor could not write into.
func (s *Service) needsCopy(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.(Accessor); ok {
		return false
	}
	if reflect.TypeOf(value).Kind() != reflect.Struct {
		return false
	}
	return s.accessors == nil || !s.accessors.Has(TypeName(value))
}

// setString stores s into v, keeping v's own string type.
func setString(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
		return nil
	case reflect.Pointer:
		if v.Type().Elem().Kind() != reflect.String {
			return ErrUnsupportedValue
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().SetString(s)
		v.Set(p)
		return nil
	case reflect.Interface:
		sv := reflect.ValueOf(s)
		if !sv.Type().AssignableTo(v.Type()) {
			return ErrUnsupportedValue
		}
		v.Set(sv)
		return nil
	}
	return ErrUnsupportedValue
}

// structFields is the accessor-name index of one struct type.
type structFields struct {
	byName map[string][]int
}

// fieldIndexCache builds each struct type's field index once.
type fieldIndexCache struct {
	cache sync.Map // reflect.Type -> *structFields
}

func (c *fieldIndexCache) fields(t reflect.Type) *structFields {
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*structFields)
	}
	built := buildStructFields(t)
	actual, _ := c.cache.LoadOrStore(t, built)
	return actual.(*structFields)
}

// buildStructFields indexes exported fields (promoted ones included) under
// their Go name, their bean-style property name and their json tag name.
func buildStructFields(t reflect.Type) *structFields {
	sf := &structFields{byName: make(map[string][]int)}
	add := func(name string, index []int) {
		if name == "" {
			return
		}
		if _, exists := sf.byName[name]; !exists {
			sf.byName[name] = index
		}
	}

	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() {
			add(f.Name, f.Index)
		}
	}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		add(decapitalize(f.Name), f.Index)
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "-" {
			add(tag, f.Index)
		}
	}
	return sf
}

// decapitalize derives the bean-style property name: "Name" becomes "name",
// while names starting with two upper-case letters ("ID", "URL") are kept.
func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(r) && unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// element is one item of a collection with a way to replace it.
type element struct {
	value any
	set   func(any) error
}

// elements returns the items of a collection value. Addressable struct
// items are returned as pointers so that writes reach the collection.
func elements(value any) ([]element, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		items := make([]element, len(v))
		for i := range v {
			items[i] = element{value: v[i], set: func(nv any) error {
				v[i] = nv
				return nil
			}}
		}
		return items, true
	case proto.Message:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]element, rv.Len())
	for i := range items {
		slot := rv.Index(i)
		items[i] = element{value: exportValue(slot), set: func(nv any) error {
			if !slot.CanSet() {
				return ErrFieldNotSettable
			}
			return assign(slot, nv)
		}}
	}
	return items, true
}
