package codegen

import (
	"sync"

	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/spec"
)

type record struct {
	level string
	msg   string
	attrs []any
}

// recordingLogger captures records for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	records []record
}

func (l *recordingLogger) add(level, msg string, attrs []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record{level: level, msg: msg, attrs: attrs})
}

func (l *recordingLogger) Debug(msg string, attrs ...any) { l.add("debug", msg, attrs) }
func (l *recordingLogger) Info(msg string, attrs ...any)  { l.add("info", msg, attrs) }
func (l *recordingLogger) Warn(msg string, attrs ...any)  { l.add("warn", msg, attrs) }
func (l *recordingLogger) Error(msg string, attrs ...any) { l.add("error", msg, attrs) }
func (l *recordingLogger) With(_ ...any) logging.Logger   { return l }

func (l *recordingLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, r := range l.records {
		if r.level == level {
			out = append(out, r.msg)
		}
	}
	return out
}

func object(name string, props ...string) *spec.Schema {
	s := &spec.Schema{Name: name, Type: spec.TypeObject, Properties: map[string]*spec.Schema{}}
	for _, p := range props {
		s.Properties[p] = &spec.Schema{Type: spec.TypeString}
		s.PropertyOrder = append(s.PropertyOrder, p)
	}
	return s
}

func primitive(t spec.JSONType, format string) *spec.Schema {
	return &spec.Schema{Type: t, Format: format}
}

func arrayOf(item *spec.Schema) *spec.Schema {
	return &spec.Schema{Type: spec.TypeArray, Items: item}
}

func param(name string, kind spec.ParameterKind, required bool, schema *spec.Schema) spec.Parameter {
	return spec.Parameter{Name: name, Kind: kind, Required: required, Schema: schema}
}

func response(code string, schema *spec.Schema) spec.Response {
	return spec.Response{StatusCode: code, Schema: schema}
}
