package masking

import (
	"log/slog"
	"reflect"
	"regexp"
	"strings"
)

// Policy decides whether a handler's responses are masked and which fields
// of a type are. Implemented by config.PolicyRegistry.
type Policy interface {
	// ShouldMask reports whether responses of the handler are masked.
	ShouldMask(handler string) bool

	// FieldSpec returns the comma-joined field specifications for a type
	// name, or "" when the type has none.
	FieldSpec(typeName string) string
}

// SpecLookup resolves the field specifications of a type name.
type SpecLookup func(typeName string) string

// Option configures a Service.
type Option func(*Service)

// WithMasker replaces the default character-class masker.
func WithMasker(m Masker) Option {
	return func(s *Service) { s.masker = m }
}

// WithAccessorRegistry installs explicitly registered field accessors.
func WithAccessorRegistry(r *AccessorRegistry) Option {
	return func(s *Service) { s.accessors = r }
}

// Service applies field specifications to response payloads in place.
// Created once at application startup and safe for concurrent use; the
// payloads themselves must not be shared while they are being masked.
//
// Masking is best effort: missing fields, malformed patterns and fields that
// cannot be written are skipped, never reported to the caller.
type Service struct {
	masker    Masker
	accessors *AccessorRegistry
	patterns  *patternCache
	structs   *fieldIndexCache
}

// NewService creates a masking service.
func NewService(opts ...Option) *Service {
	s := &Service{
		masker:   CharClassMasker{},
		patterns: newPatternCache(),
		structs:  &fieldIndexCache{},
	}
	for _, opt := range opts {
		opt(s)
	}

	registered := 0
	if s.accessors != nil {
		registered = s.accessors.Len()
	}
	slog.Info("Masking service initialized",
		"masker", s.masker.Name(),
		"registered_types", registered)

	return s
}

// MaskResponse masks payload when the policy enables masking for handler.
// Returns whether masking ran.
func (s *Service) MaskResponse(policy Policy, handler string, payload any) bool {
	if policy == nil || !policy.ShouldMask(handler) {
		return false
	}
	s.MaskPayload(payload, policy.FieldSpec)
	return true
}

// MaskPayload masks a response payload. A collection payload has every
// element masked by its own type's specifications.
func (s *Service) MaskPayload(payload any, lookup SpecLookup) {
	if payload == nil || lookup == nil {
		return
	}
	if items, ok := elements(payload); ok {
		for _, item := range items {
			s.maskObject(item.value, item.set, lookup)
		}
		return
	}
	s.maskObject(payload, nil, lookup)
}

func (s *Service) maskObject(obj any, set func(any) error, lookup SpecLookup) {
	if obj == nil {
		return
	}
	specs := lookup(TypeName(obj))
	if strings.TrimSpace(specs) == "" {
		return
	}
	s.withAddressable(obj, set, func(target any) {
		s.ApplyMasking(target, specs)
	})
}

// ApplyMasking applies every specification in fieldSpecs to target, in order.
// The target is modified in place.
func (s *Service) ApplyMasking(target any, fieldSpecs string) {
	if target == nil {
		return
	}
	for _, spec := range ParseFieldSpecs(fieldSpecs) {
		s.applySpec(target, spec)
	}
}

func (s *Service) applySpec(target any, spec FieldSpec) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered while masking field, skipping",
				"field", spec.Raw, "panic", r)
		}
	}()

	if len(spec.Patterns) == 0 {
		s.maskField(target, spec.Path, nil)
		return
	}
	for _, source := range spec.Patterns {
		if IsBlankPattern(source) {
			s.maskField(target, spec.Path, nil)
			continue
		}
		cp := s.patterns.get(source)
		if cp == nil {
			continue
		}
		s.maskField(target, spec.Path, cp.Regex)
	}
}

// maskField resolves path[0] on node. Strings are masked and written back;
// collections and nested records are descended into with the rest of path.
func (s *Service) maskField(node any, path []Segment, re *regexp.Regexp) {
	if node == nil || len(path) == 0 {
		return
	}
	acc := s.accessorFor(node)
	if acc == nil {
		return
	}

	seg := path[0]
	value, err := acc.GetField(seg.Name)
	if err != nil {
		slog.Debug("Masking field not resolved, skipping", "field", seg.Name, "error", err)
		return
	}

	if str, ok := value.(string); ok {
		masked := s.maskValue(str, re)
		if masked == str {
			return
		}
		if err := acc.SetField(seg.Name, masked); err != nil {
			slog.Warn("Could not write masked value, field left unmasked",
				"field", seg.Name, "type", TypeName(node), "error", err)
		}
		return
	}

	rest := path[1:]
	if len(rest) == 0 {
		return
	}
	if items, ok := elements(value); ok {
		for _, item := range items {
			s.withAddressable(item.value, item.set, func(target any) {
				s.maskField(target, rest, re)
			})
		}
		return
	}
	if seg.List && value != nil {
		slog.Debug("Field marked as list is not a collection, descending into it",
			"field", seg.Name, "type", TypeName(node))
	}
	s.withAddressable(value, func(v any) error { return acc.SetField(seg.Name, v) }, func(target any) {
		s.maskField(target, rest, re)
	})
}

// withAddressable runs mask on value. A struct held by value (in an interface,
// a map or a []any) is masked on an addressable copy that is then stored back
// through set; a nil set leaves such a value unmasked.
func (s *Service) withAddressable(value any, set func(any) error, mask func(target any)) {
	if !s.needsCopy(value) {
		mask(value)
		return
	}

	rv := reflect.ValueOf(value)
	cp := reflect.New(rv.Type())
	cp.Elem().Set(rv)
	mask(cp.Interface())

	updated := cp.Elem().Interface()
	if reflect.DeepEqual(value, updated) {
		return
	}
	if set == nil {
		slog.Warn("Could not store masked copy, value left unmasked", "type", TypeName(value))
		return
	}
	if err := set(updated); err != nil {
		slog.Warn("Could not store masked copy, value left unmasked",
			"type", TypeName(value), "error", err)
	}
}

// maskValue masks the whole value, or with a pattern only the text captured by
// group 1 of each match. Matches are taken from the original value; each
// captured text replaces its first occurrence in the string as masked so far.
func (s *Service) maskValue(value string, re *regexp.Regexp) string {
	if re == nil {
		return s.masker.Mask(value)
	}

	masked := value
	for _, m := range re.FindAllStringSubmatchIndex(value, -1) {
		if m[2] < 0 {
			continue
		}
		text := value[m[2]:m[3]]
		if strings.TrimSpace(text) == "" {
			continue
		}
		pos := strings.Index(masked, text)
		if pos < 0 {
			continue
		}
		masked = masked[:pos] + s.masker.Mask(text) + masked[pos+len(text):]
	}
	return masked
}
