// Package target holds the per-language configuration records the resolution
// engine is parameterized with. The algorithm is shared; only these records
// differ between C#, TypeScript and Go output.
package target

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/swagger2client/internal/spec"
)

// Language describes how one output language spells types and identifiers.
// Format fields take the inner type(s) through fmt verbs.
type Language struct {
	Name          string
	FileExtension string

	Reserved ReservedWordTable
	// EscapePrefix turns a reserved word into a legal identifier.
	EscapePrefix string

	AnyType  string
	VoidType string
	// ExceptionType is the generic error type used when an operation's error
	// shape is ambiguous or absent.
	ExceptionType string
	// DefaultExceptionName is used when the single error response has no schema.
	DefaultExceptionName string

	FileParameterType string
	FileResponseType  string

	SequenceFormat   string // read-only iteration container, "%s" = item
	DictionaryFormat string // string-keyed read-only map, "%s" = value
	GenericFormat    string // "%s" wrapper, "%s" argument
	// VoidGenericArgument instantiates a generic wrapper for void results in
	// languages that cannot use a generic type bare.
	VoidGenericArgument string
	AsyncFormat         string // asynchronous completion of "%s"
	AsyncVoidType       string
	NullableFormat      string
	// NullableTypes limits NullableFormat to these types. Empty means all
	// types except AnyType.
	NullableTypes map[string]bool
	// NilableContainers leaves sequences and dictionaries unwrapped; their
	// zero value already stands for null.
	NilableContainers bool
	// EnumsAreValueTypes makes named enums take NullableFormat even when
	// NullableTypes does not list them.
	EnumsAreValueTypes bool
	// OptionalParametersNullable marks optional operation parameters nullable
	// so they can default to null in the emitted signature.
	OptionalParametersNullable bool

	// Primitives maps "type/format" and "type" keys to type names.
	Primitives map[string]string
}

// Escape returns name, prefixed when it is reserved.
func (l *Language) Escape(name string) string {
	if l.Reserved.Contains(name) {
		return l.EscapePrefix + name
	}
	return name
}

func (l *Language) Sequence(item string) string   { return fmt.Sprintf(l.SequenceFormat, item) }
func (l *Language) Dictionary(value string) string { return fmt.Sprintf(l.DictionaryFormat, value) }

func (l *Language) Generic(name, arg string) string {
	return fmt.Sprintf(l.GenericFormat, name, arg)
}

// Async wraps t in the language's asynchronous completion type.
func (l *Language) Async(t string) string { return fmt.Sprintf(l.AsyncFormat, t) }

// Nullable marks t as nullable where the language spells that explicitly.
// A type that is already nullable is returned unchanged.
func (l *Language) Nullable(t string) string {
	if l.NullableTypes != nil && !l.NullableTypes[t] {
		return t
	}
	if l.NilableContainers && l.isContainer(t) {
		return t
	}
	return l.wrapNullable(t)
}

// NullableEnum is Nullable for a named enum type.
func (l *Language) NullableEnum(t string) string {
	if l.EnumsAreValueTypes {
		return l.wrapNullable(t)
	}
	return l.Nullable(t)
}

func (l *Language) wrapNullable(t string) string {
	if l.NullableFormat == "" || t == l.AnyType || t == "" || l.isNullable(t) {
		return t
	}
	return fmt.Sprintf(l.NullableFormat, t)
}

// NonNullable strips the nullable spelling Nullable adds.
func (l *Language) NonNullable(t string) string {
	if !l.isNullable(t) {
		return t
	}
	prefix, suffix, _ := strings.Cut(l.NullableFormat, "%s")
	return strings.TrimSuffix(strings.TrimPrefix(t, prefix), suffix)
}

func (l *Language) isNullable(t string) bool {
	prefix, suffix, ok := strings.Cut(l.NullableFormat, "%s")
	if !ok || prefix+suffix == "" {
		return false
	}
	return strings.HasPrefix(t, prefix) && strings.HasSuffix(t, suffix) && len(t) > len(prefix)+len(suffix)
}

func (l *Language) isContainer(t string) bool {
	for _, f := range []string{l.SequenceFormat, l.DictionaryFormat} {
		if prefix, _, ok := strings.Cut(f, "%s"); ok && prefix != "" && strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

// Primitive maps a primitive schema type and format. ok is false for types
// the language record does not know.
func (l *Language) Primitive(t spec.JSONType, format string) (string, bool) {
	base := (t &^ spec.TypeNull).String()
	if format != "" {
		if name, ok := l.Primitives[base+"/"+format]; ok {
			return name, true
		}
	}
	name, ok := l.Primitives[base]
	return name, ok
}

var registry = map[string]func() *Language{
	"csharp":     CSharp,
	"cs":         CSharp,
	"c#":         CSharp,
	"typescript": TypeScript,
	"ts":         TypeScript,
	"go":         Go,
	"golang":     Go,
}

// Lookup returns a fresh record for a language tag.
func Lookup(tag string) (*Language, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return nil, fmt.Errorf("target: unknown language %q (allowed: %s)", tag, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the canonical language tags.
func Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, ctor := range registry {
		if n := ctor().Name; !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
