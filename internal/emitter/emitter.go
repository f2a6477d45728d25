// Package emitter renders a resolved codegen.Result into client source files
// for the result's target language.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/mark3labs/swagger2client/internal/codegen"
	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/spec"
)

// Options controls where and how files are written.
type Options struct {
	OutDir string // required
	// Namespace is the C# namespace or Go package name. Ignored for TypeScript.
	Namespace string
	Force     bool // overwrite a non-empty OutDir
	DryRun    bool // plan only
	Logger    logging.Logger
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result lists the planned files in path order.
type Result struct {
	Language  string
	Namespace string
	Planned   []PlannedFile
}

// Emit renders one client file per group, a models file with the support
// and DTO types, and model.json with the resolved model.
func Emit(ctx context.Context, doc *spec.Document, res *codegen.Result, opts Options) (*Result, error) {
	if doc == nil || res == nil {
		return nil, fmt.Errorf("emitter: nil document or result")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("emitter: OutDir is required")
	}
	logger := logging.OrNop(opts.Logger)
	settings := res.Settings()
	lang := settings.Language
	if lang == nil {
		return nil, fmt.Errorf("emitter: result has no target language")
	}
	set, err := templatesFor(lang.Name)
	if err != nil {
		return nil, err
	}

	data := newTemplateData(doc, res, namespaceFor(lang.Name, opts.Namespace, doc.Title))
	files := map[string][]byte{}

	for _, g := range data.Groups {
		gd := data.withGroup(g)
		out, err := render(set, "client", gd)
		if err != nil {
			return nil, fmt.Errorf("emitter: render %s: %w", g.ClientName, err)
		}
		files[clientFileName(lang.Name, g.ClientName)+lang.FileExtension] = out
	}

	out, err := render(set, "models", data)
	if err != nil {
		return nil, fmt.Errorf("emitter: render models: %w", err)
	}
	files[modelsFileName(lang.Name)+lang.FileExtension] = out

	dump, err := json.MarshalIndent(newModelDump(doc, res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal model.json: %w", err)
	}
	files["model.json"] = append(dump, '\n')

	if lang.Name == "go" {
		for rel, src := range files {
			if strings.HasSuffix(rel, ".go") {
				files[rel] = formatGo(rel, src, logger)
			}
		}
	}

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, p)
	}
	sort.Strings(rels)
	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
		logger.Info("files written", "dir", opts.OutDir, "count", len(files))
	}
	return &Result{Language: lang.Name, Namespace: data.Namespace, Planned: planned}, nil
}

func clientFileName(lang, client string) string {
	if lang == "go" {
		return snake(client)
	}
	return client
}

func modelsFileName(lang string) string {
	if lang == "go" {
		return "models"
	}
	return "Models"
}

// namespaceFor picks the C# namespace or Go package. An explicit value wins.
func namespaceFor(lang, explicit, title string) string {
	switch lang {
	case "go":
		pkg := explicit
		if pkg == "" {
			pkg = title
		}
		var b strings.Builder
		for _, r := range strings.ToLower(pkg) {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 || unicode.IsDigit(rune(b.String()[0])) {
			return "client"
		}
		return b.String()
	case "csharp":
		if explicit != "" {
			return explicit
		}
		return "ApiClient"
	}
	return explicit
}

// snake turns PascalCase into snake_case: PetsClient -> pets_client.
func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type modelDump struct {
	Title      string              `json:"title"`
	Version    string              `json:"version"`
	Language   string              `json:"language"`
	Groups     []codegen.Group     `json:"groups"`
	NamedTypes []codegen.NamedType `json:"namedTypes"`
	Failures   []failureDump       `json:"failures,omitempty"`
}

type failureDump struct {
	OperationID string `json:"operationId"`
	Error       string `json:"error"`
}

func newModelDump(doc *spec.Document, res *codegen.Result) modelDump {
	d := modelDump{
		Title:      doc.Title,
		Version:    doc.Version,
		Language:   res.Settings().Language.Name,
		Groups:     res.Groups(),
		NamedTypes: res.NamedTypes,
	}
	for _, f := range res.Failures {
		d.Failures = append(d.Failures, failureDump{OperationID: f.OperationID, Error: f.Err.Error()})
	}
	return d
}
