package emitter

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/mark3labs/swagger2client/internal/codegen"
	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/spec"
)

//go:embed templates/*/*.tmpl
var templateFS embed.FS

var (
	setsMu sync.Mutex
	sets   = map[string]*template.Template{}
)

// templatesFor parses templates/<lang>/*.tmpl once per language. Each
// language gets its own set so template names only need to be unique within
// one language.
func templatesFor(lang string) (*template.Template, error) {
	setsMu.Lock()
	defer setsMu.Unlock()
	if t, ok := sets[lang]; ok {
		return t, nil
	}
	t, err := template.New(lang).Funcs(templateFuncs).ParseFS(templateFS, "templates/"+lang+"/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("emitter: no templates for language %q: %w", lang, err)
	}
	sets[lang] = t
	return t, nil
}

var templateFuncs = template.FuncMap{
	"join":       strings.Join,
	"quote":      strconv.Quote,
	"lowerFirst": lowerFirst,
	"literal":    literal,
	"csEnum":     csEnumValue,
	"comment":    cleanDescription,
	"tsProp":     tsPropertyName,
	"paramsOf":   paramsOf,
}

type paramList struct {
	Parameters []codegen.ParameterModel
	// Optional lets optional parameters be omitted at the call site.
	Optional bool
}

func paramsOf(op *codegen.OperationModel, optional bool) paramList {
	return paramList{Parameters: op.Parameters, Optional: optional}
}

func render(set *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatGo runs goimports over src. Unformattable output is kept as is.
func formatGo(filename string, src []byte, logger logging.Logger) []byte {
	out, err := imports.Process(filename, src, nil)
	if err != nil {
		logger.Warn("go output left unformatted", "file", filename, "error", err)
		return src
	}
	return out
}

type templateData struct {
	Title     string
	Version   string
	Namespace string
	Settings  codegen.Settings

	Groups     []codegen.Group
	NamedTypes []codegen.NamedType
	// Wrappers lists the response wrapper type names in use.
	Wrappers []string
	// ErrorTypes marks named types used as an exception type.
	ErrorTypes map[string]bool
	// TypeImports lists every type name the models file exports.
	TypeImports []string

	// Group is set while rendering one client.
	Group codegen.Group
}

func newTemplateData(doc *spec.Document, res *codegen.Result, namespace string) *templateData {
	settings := res.Settings()
	d := &templateData{
		Title:      doc.Title,
		Version:    doc.Version,
		Namespace:  namespace,
		Settings:   settings,
		Groups:     res.Groups(),
		ErrorTypes: map[string]bool{},
	}
	if settings.GenerateDtoTypes {
		d.NamedTypes = res.NamedTypes
	}

	wrappers := map[string]bool{}
	for i := range d.Groups {
		g := &d.Groups[i]
		if g.ClientName == "" {
			g.ClientName = "Client"
		}
		if settings.WrapResponses {
			wrappers[settings.ResponseClassName(g.Name)] = true
		}
		for _, op := range g.Operations {
			d.ErrorTypes[settings.Language.NonNullable(op.ExceptionType)] = true
		}
	}
	d.Wrappers = sortedKeys(wrappers)

	lang := settings.Language
	d.TypeImports = []string{lang.FileParameterType, strings.TrimPrefix(lang.FileResponseType, "*")}
	d.TypeImports = append(d.TypeImports, d.Wrappers...)
	for _, nt := range d.NamedTypes {
		d.TypeImports = append(d.TypeImports, nt.Name)
	}
	return d
}

func (d *templateData) withGroup(g codegen.Group) *templateData {
	cp := *d
	cp.Group = g
	return &cp
}

// IsErrorType reports a named type that should implement the language's
// error contract. Go types with an Error field cannot carry an Error method.
func (d *templateData) IsErrorType(nt codegen.NamedType) bool {
	if nt.Kind != codegen.KindObject || !d.ErrorTypes[nt.Name] {
		return false
	}
	for _, p := range nt.Properties {
		if p.FieldName == "Error" {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// literal renders an enum value as a source literal.
func literal(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// csEnumValue is the numeric value of a C# enum member: integral values are
// kept, anything else uses the member's position.
func csEnumValue(i int, v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
	}
	return strconv.Itoa(i)
}

const maxDescriptionLength = 200

// cleanDescription flattens a description onto one line for a comment.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxDescriptionLength {
		s = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return s
}

var tsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func tsPropertyName(name string) string {
	if tsIdentifier.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
