package spec

import "strings"

type HttpMethod string

const (
	GET     HttpMethod = "get"
	POST    HttpMethod = "post"
	PUT     HttpMethod = "put"
	DELETE  HttpMethod = "delete"
	PATCH   HttpMethod = "patch"
	HEAD    HttpMethod = "head"
	OPTIONS HttpMethod = "options"
	TRACE   HttpMethod = "trace"
)

// Document is the operation/schema graph the resolution engine consumes. It is
// produced by BuildDocument and treated as read-only afterwards.
type Document struct {
	Title       string
	Version     string
	Description string
	Servers     []Server
	Tags        []string
	Operations  []Operation
	// Schemas holds every named schema by component name. Refs to a component
	// resolve to the same *Schema, so pointer identity is named-type identity.
	Schemas     map[string]*Schema
	SchemaNames []string // sorted keys of Schemas
}

type Server struct {
	URL         string
	Description string
}

type Operation struct {
	ID          string // "<method> <path>"
	OperationID string
	Method      HttpMethod
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	Responses   []Response
	Deprecated  bool
}

// ParameterKind is the location of a parameter.
type ParameterKind string

const (
	InPath     ParameterKind = "path"
	InQuery    ParameterKind = "query"
	InHeader   ParameterKind = "header"
	InCookie   ParameterKind = "cookie"
	InBody     ParameterKind = "body"
	InFormData ParameterKind = "formData"
)

// Valid reports whether k is one of the known locations.
func (k ParameterKind) Valid() bool {
	switch k {
	case InPath, InQuery, InHeader, InCookie, InBody, InFormData:
		return true
	}
	return false
}

type Parameter struct {
	Name     string
	Kind     ParameterKind
	Required bool
	Schema   *Schema
	// CollectionFormat is the Swagger 2 serialization of repeated values
	// (csv, ssv, tsv, pipes, multi). Empty for OpenAPI 3 sources.
	CollectionFormat string
	Deprecated       bool
	Default          any
	Description      string
}

type Response struct {
	StatusCode  string // "200", "2XX", "default"
	Schema      *Schema
	Nullable    bool
	Description string
	ContentType string
}

// JSONType is a set of JSON schema primitive types. OpenAPI 3.1 and nullable
// schemas combine several flags.
type JSONType uint16

const (
	TypeNone   JSONType = 0
	TypeString JSONType = 1 << iota
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeObject
	TypeArray
	TypeFile
	TypeNull
)

// Has reports whether every flag in f is set on t.
func (t JSONType) Has(f JSONType) bool { return f != 0 && t&f == f }

// Is reports whether t is exactly f, ignoring the null flag.
func (t JSONType) Is(f JSONType) bool { return t&^TypeNull == f }

func (t JSONType) String() string {
	if t == TypeNone {
		return "none"
	}
	var parts []string
	for _, n := range jsonTypeNames {
		if t.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

var jsonTypeNames = []struct {
	name string
	flag JSONType
}{
	{"string", TypeString},
	{"number", TypeNumber},
	{"integer", TypeInteger},
	{"boolean", TypeBoolean},
	{"object", TypeObject},
	{"array", TypeArray},
	{"file", TypeFile},
	{"null", TypeNull},
}

// ParseJSONType maps a schema "type" keyword to its flag. Unknown names map
// to TypeNone.
func ParseJSONType(s string) JSONType {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, n := range jsonTypeNames {
		if n.name == s {
			return n.flag
		}
	}
	return TypeNone
}

type Schema struct {
	// Name is the named-type identity. Empty for inline schemas.
	Name                 string
	Type                 JSONType
	Format               string
	Description          string
	Items                *Schema
	AdditionalProperties *Schema
	Properties           map[string]*Schema
	PropertyOrder        []string
	Required             []string
	Enum                 []any
	Nullable             bool
	AllOf                []*Schema
	OneOf                []*Schema
	AnyOf                []*Schema
}

// IsArray reports an array shape.
func (s *Schema) IsArray() bool {
	return s != nil && (s.Type.Has(TypeArray) || (s.Type == TypeNone && s.Items != nil))
}

// IsDictionary reports a string-keyed map shape: additional properties with no
// fixed property set.
func (s *Schema) IsDictionary() bool {
	return s != nil && s.AdditionalProperties != nil && len(s.Properties) == 0 &&
		(s.Type == TypeNone || s.Type.Is(TypeObject))
}

// IsFile reports the file primitive, including OpenAPI 3 binary strings.
func (s *Schema) IsFile() bool {
	if s == nil {
		return false
	}
	if s.Type.Has(TypeFile) {
		return true
	}
	return s.Type.Is(TypeString) && s.Format == "binary"
}

// IsRequired reports whether property name is listed as required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
