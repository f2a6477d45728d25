package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/naming"
	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/mark3labs/swagger2client/internal/target"
)

// TypeContext carries the usage site of a schema into Resolve.
type TypeContext struct {
	// Nullable forces a nullable type even when the schema is not.
	Nullable bool
	// Fallback replaces the any-type when the schema cannot be resolved.
	Fallback string
	// CollectionFormat is the parameter's Swagger 2 collection format.
	CollectionFormat string
}

// NamedKind is the shape of an emitted named type.
type NamedKind string

const (
	KindObject NamedKind = "object"
	KindEnum   NamedKind = "enum"
)

// NamedType is one shared type definition for the renderer.
type NamedType struct {
	Name        string          `json:"name"`
	Kind        NamedKind       `json:"kind"`
	Description string          `json:"description,omitempty"`
	Properties  []PropertyModel `json:"properties,omitempty"`
	// EnumBase is the primitive type backing an enum.
	EnumBase   string       `json:"enumBase,omitempty"`
	EnumValues []EnumMember `json:"enumValues,omitempty"`
}

type PropertyModel struct {
	Name        string `json:"name"`                  // JSON name
	FieldName   string `json:"fieldName"`
	Type        string `json:"type"`
	IsRequired  bool   `json:"isRequired"`
	IsNullable  bool   `json:"isNullable"`
	Description string `json:"description,omitempty"`
}

type EnumMember struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// TypeResolver maps schemas to target-language type expressions. Register is
// the only writer; after it returns the resolver is safe for concurrent reads.
type TypeResolver struct {
	lang   *target.Language
	logger logging.Logger

	names map[*spec.Schema]string
	used  map[string]bool
	order []*spec.Schema
}

func NewTypeResolver(lang *target.Language, logger logging.Logger) *TypeResolver {
	return &TypeResolver{
		lang:   lang,
		logger: logging.OrNop(logger),
		names:  map[*spec.Schema]string{},
		used:   map[string]bool{},
	}
}

// Register assigns a unique target name to every named object or enum schema,
// in sorted key order. A schema already registered keeps its first name, and
// distinct schemas whose names sanitize to the same identifier get numeric
// suffixes.
func (r *TypeResolver) Register(schemas map[string]*spec.Schema) {
	keys := make([]string, 0, len(schemas))
	for k := range schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := schemas[k]; registrable(s) {
			r.register(k, s)
		}
	}
}

func (r *TypeResolver) register(name string, s *spec.Schema) string {
	if n, ok := r.names[s]; ok {
		return n
	}
	base := r.typeName(name)
	n := base
	for i := 2; r.used[n]; i++ {
		n = base + strconv.Itoa(i)
	}
	r.names[s] = n
	r.used[n] = true
	r.order = append(r.order, s)
	return n
}

func (r *TypeResolver) typeName(name string) string {
	n := naming.Pascal(name)
	if n == "" {
		n = "Type"
	}
	return r.lang.Escape(n)
}

// registrable reports schemas that become named types: enums and objects with
// their own identity. Named arrays, maps and primitives resolve structurally.
func registrable(s *spec.Schema) bool {
	if s == nil || s.Name == "" || s.IsArray() || s.IsDictionary() {
		return false
	}
	if len(s.Enum) > 0 || len(s.Properties) > 0 || len(s.AllOf) > 0 {
		return true
	}
	return s.Type.Is(spec.TypeObject)
}

// Resolve returns the type expression for s at a usage site.
func (r *TypeResolver) Resolve(s *spec.Schema, ctx TypeContext) string {
	return r.resolve(s, ctx, nil)
}

func (r *TypeResolver) resolve(s *spec.Schema, ctx TypeContext, visiting map[*spec.Schema]bool) string {
	if s == nil {
		return r.unresolved(nil, ctx.Fallback)
	}
	t := r.shape(s, ctx, visiting)
	if ctx.Nullable || isNullable(s) {
		t = r.nullable(s, t)
	}
	return t
}

func (r *TypeResolver) nullable(s *spec.Schema, t string) string {
	if r.isEnum(s, 0) {
		return r.lang.NullableEnum(t)
	}
	return r.lang.Nullable(t)
}

// isEnum reports schemas that resolve to a named enum, directly or through a
// single allOf member or null-padded oneOf/anyOf branches.
func (r *TypeResolver) isEnum(s *spec.Schema, depth int) bool {
	if s == nil || depth > 8 {
		return false
	}
	if _, ok := r.names[s]; ok || registrable(s) {
		return len(s.Enum) > 0
	}
	if s.IsArray() || s.IsDictionary() {
		return false
	}
	if len(s.AllOf) == 1 && len(s.Properties) == 0 {
		return r.isEnum(s.AllOf[0], depth+1)
	}
	branches := s.OneOf
	if len(branches) == 0 {
		branches = s.AnyOf
	}
	found := false
	for _, b := range branches {
		if b == nil || b.Type == spec.TypeNull {
			continue
		}
		if !r.isEnum(b, depth+1) {
			return false
		}
		found = true
	}
	return found
}

func (r *TypeResolver) shape(s *spec.Schema, ctx TypeContext, visiting map[*spec.Schema]bool) string {
	if name, ok := r.names[s]; ok {
		return name
	}
	if s.Name != "" {
		if visiting[s] {
			return r.lang.AnyType
		}
		visiting = with(visiting, s)
	}
	switch {
	case s.IsArray():
		if s.Items == nil && s.Type.Has(spec.TypeFile) {
			return r.lang.Sequence(r.lang.FileParameterType)
		}
		return r.lang.Sequence(r.resolve(s.Items, TypeContext{}, visiting))
	case s.IsDictionary():
		return r.lang.Dictionary(r.resolve(s.AdditionalProperties, TypeContext{}, visiting))
	case isRepeatedFilePart(s, ctx.CollectionFormat):
		return r.lang.Sequence(r.lang.FileParameterType)
	case s.IsFile():
		return r.lang.FileParameterType
	}
	return r.base(s, ctx.Fallback, visiting)
}

// isRepeatedFilePart reports a form field sent as independent file parts: a
// file-tagged schema declared with collectionFormat "multi" that does not
// itself carry the array flag. A schema with both file and array flags is an
// array of files and takes the array branch instead.
func isRepeatedFilePart(s *spec.Schema, collectionFormat string) bool {
	return s != nil && s.Type.Has(spec.TypeFile) && !s.Type.Has(spec.TypeArray) &&
		strings.EqualFold(collectionFormat, "multi")
}

// BaseTypeName resolves s without container or file handling: registered
// names, composition, enums and primitives. Unknown shapes give fallback, or
// the language's any-type when fallback is empty.
func (r *TypeResolver) BaseTypeName(s *spec.Schema, nullable bool, fallback string) string {
	t := r.base(s, fallback, nil)
	if nullable {
		t = r.nullable(s, t)
	}
	return t
}

func (r *TypeResolver) base(s *spec.Schema, fallback string, visiting map[*spec.Schema]bool) string {
	if s == nil {
		return r.unresolved(nil, fallback)
	}
	if name, ok := r.names[s]; ok {
		return name
	}
	if registrable(s) {
		// Not part of the registered set; name it without caching.
		r.logger.Debug("unregistered named schema", "schema", s.Name)
		return r.typeName(s.Name)
	}
	switch {
	case len(s.AllOf) == 1 && len(s.Properties) == 0:
		return r.resolve(s.AllOf[0], TypeContext{Fallback: fallback}, visiting)
	case len(s.OneOf) > 0:
		return r.common(s, s.OneOf, fallback, visiting)
	case len(s.AnyOf) > 0:
		return r.common(s, s.AnyOf, fallback, visiting)
	}
	if t, ok := r.lang.Primitive(s.Type, s.Format); ok {
		return t
	}
	return r.unresolved(s, fallback)
}

// common resolves polymorphic branches to their shared type. Null branches
// are skipped; disagreeing branches give the any-type.
func (r *TypeResolver) common(s *spec.Schema, branches []*spec.Schema, fallback string, visiting map[*spec.Schema]bool) string {
	var out string
	for _, b := range branches {
		if b == nil || b.Type == spec.TypeNull {
			continue
		}
		t := r.resolve(b, TypeContext{}, visiting)
		if out == "" {
			out = t
		} else if t != out {
			r.logger.Info("polymorphic schema has no common type", "schema", s.Name, "types", out+", "+t)
			return r.lang.AnyType
		}
	}
	if out == "" {
		return r.unresolved(s, fallback)
	}
	return out
}

func (r *TypeResolver) unresolved(s *spec.Schema, fallback string) string {
	t := fallback
	if t == "" {
		t = r.lang.AnyType
	}
	attrs := []any{"resolved", t}
	if s != nil {
		attrs = append(attrs, "type", s.Type.String(), "format", s.Format)
		if s.Name != "" {
			attrs = append(attrs, "schema", s.Name)
		}
	}
	r.logger.Info("unresolvable schema type", attrs...)
	return t
}

func isNullable(s *spec.Schema) bool {
	if s.Nullable || s.Type.Has(spec.TypeNull) {
		return true
	}
	for _, b := range append(append([]*spec.Schema(nil), s.OneOf...), s.AnyOf...) {
		if b != nil && b.Type == spec.TypeNull {
			return true
		}
	}
	return false
}

func with(set map[*spec.Schema]bool, s *spec.Schema) map[*spec.Schema]bool {
	out := make(map[*spec.Schema]bool, len(set)+1)
	for k := range set {
		out[k] = true
	}
	out[s] = true
	return out
}

// NamedTypes lists every registered type once, sorted by name.
func (r *TypeResolver) NamedTypes() []NamedType {
	out := make([]NamedType, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, r.namedType(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *TypeResolver) namedType(s *spec.Schema) NamedType {
	nt := NamedType{Name: r.names[s], Description: s.Description}
	if len(s.Enum) > 0 {
		nt.Kind = KindEnum
		nt.EnumBase = r.base(&spec.Schema{Type: s.Type &^ spec.TypeNull, Format: s.Format}, "", nil)
		nt.EnumValues = enumMembers(s.Enum)
		return nt
	}
	nt.Kind = KindObject
	seen, fields := map[string]bool{}, map[string]bool{}
	r.collectProperties(s, s, &nt.Properties, seen, fields, map[*spec.Schema]bool{})
	return nt
}

// collectProperties flattens allOf members before the schema's own properties.
// The first declaration of a property name wins; field names that collide
// after casing get a numeric suffix.
func (r *TypeResolver) collectProperties(root, s *spec.Schema, out *[]PropertyModel, seen, fields map[string]bool, visited map[*spec.Schema]bool) {
	if s == nil || visited[s] {
		return
	}
	visited[s] = true
	for _, member := range s.AllOf {
		r.collectProperties(root, member, out, seen, fields, visited)
	}
	for _, name := range s.PropertyOrder {
		if seen[name] {
			continue
		}
		seen[name] = true
		ps := s.Properties[name]
		field := naming.Pascal(name)
		if field == "" {
			field = "Property"
		}
		base := field
		for i := 2; fields[field]; i++ {
			field = base + strconv.Itoa(i)
		}
		fields[field] = true
		p := PropertyModel{
			Name:       name,
			FieldName:  field,
			Type:       r.Resolve(ps, TypeContext{}),
			IsRequired: s.IsRequired(name) || root.IsRequired(name),
		}
		if ps != nil {
			p.IsNullable = isNullable(ps)
			p.Description = ps.Description
		}
		*out = append(*out, p)
	}
}

func enumMembers(values []any) []EnumMember {
	out := make([]EnumMember, 0, len(values))
	used := map[string]bool{}
	for _, v := range values {
		if v == nil {
			continue
		}
		var name string
		if str, ok := v.(string); ok {
			name = naming.Pascal(str)
		} else {
			name = "Value" + strings.Join(naming.Words(strings.ReplaceAll(fmt.Sprint(v), "-", "Minus ")), "")
		}
		if name == "" {
			name = "Empty"
		}
		base := name
		for i := 2; used[name]; i++ {
			name = base + strconv.Itoa(i)
		}
		used[name] = true
		out = append(out, EnumMember{Name: name, Value: v})
	}
	return out
}
