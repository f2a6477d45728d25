// Package codegen is the schema-to-client-model resolution engine. It turns a
// spec.Document into OperationModels whose parameter lists, result types and
// exception types are final for the chosen target language.
package codegen

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/swagger2client/internal/spec"
)

// Result is the outcome of one generation pass.
type Result struct {
	// Operations holds every successfully built operation in input order.
	Operations []*OperationModel
	Failures   []OperationFailure
	NamedTypes []NamedType

	settings Settings
}

// Settings returns the normalized settings the run used.
func (r *Result) Settings() Settings { return r.settings }

// Succeeded reports a run without failures.
func (r *Result) Succeeded() bool { return len(r.Failures) == 0 }

// Partial reports a run where some, but not all, operations built.
func (r *Result) Partial() bool { return len(r.Failures) > 0 && len(r.Operations) > 0 }

// Group is one client: its operations sorted by method name.
type Group struct {
	Name       string            `json:"name"`
	ClientName string            `json:"clientName"`
	Operations []*OperationModel `json:"operations"`
}

// Groups returns the built operations grouped by client, groups sorted by
// name with the default group first.
func (r *Result) Groups() []Group {
	index := map[string]int{}
	var groups []Group
	for _, op := range r.Operations {
		i, ok := index[op.Group]
		if !ok {
			i = len(groups)
			index[op.Group] = i
			groups = append(groups, Group{Name: op.Group, ClientName: r.settings.ClientName(op.Group)})
		}
		groups[i].Operations = append(groups[i].Operations, op)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	for _, g := range groups {
		sort.SliceStable(g.Operations, func(i, j int) bool { return g.Operations[i].Method < g.Operations[j].Method })
	}
	return groups
}

// Generate runs both phases over doc. Phase one assigns operation names and
// registers named types; phase two builds each operation, reading only what
// phase one produced. Per-operation failures are collected in the Result; the
// returned error is reserved for failures of the whole run.
func Generate(ctx context.Context, doc *spec.Document, settings Settings) (*Result, error) {
	if doc == nil {
		return nil, &BuildError{Code: MissingInput, Message: "document is nil"}
	}
	settings = settings.normalized()
	logger := settings.Logger

	// phase one
	names, err := settings.OperationNameGenerator.Assign(doc.Operations)
	if err != nil {
		return nil, fmt.Errorf("codegen: assign operation names: %w", err)
	}
	types := NewTypeResolver(settings.Language, logger)
	types.Register(doc.Schemas)
	logger.Debug("phase one complete", "operations", len(doc.Operations), "named_types", len(types.order))

	// phase two
	builder := NewOperationModelBuilder(settings, types)
	models := make([]*OperationModel, len(doc.Operations))
	errs := make([]error, len(doc.Operations))
	repeated := repeatedIDs(doc.Operations)
	build := func(i int) {
		op := doc.Operations[i]
		if repeated[i] {
			errs[i] = &BuildError{Code: NameCollision, OperationID: op.ID, Message: "duplicate operation identifier"}
			return
		}
		models[i], errs[i] = builder.Build(op, names[op.ID])
	}

	if settings.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(settings.Concurrency)
		for i := range doc.Operations {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				build(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range doc.Operations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			build(i)
		}
	}

	res := &Result{settings: settings}
	for i, m := range models {
		if errs[i] != nil {
			id := failureID(doc.Operations[i])
			logger.Warn("operation skipped", "operation", id, "error", errs[i])
			res.Failures = append(res.Failures, OperationFailure{OperationID: id, Err: errs[i]})
			continue
		}
		res.Operations = append(res.Operations, m)
	}
	res.NamedTypes = types.NamedTypes()
	logger.Info("models resolved", "operations", len(res.Operations), "failed", len(res.Failures), "types", len(res.NamedTypes))
	return res, nil
}

// repeatedIDs marks every occurrence of an operation identifier after the
// first.
func repeatedIDs(ops []spec.Operation) []bool {
	out := make([]bool, len(ops))
	seen := make(map[string]bool, len(ops))
	for i, op := range ops {
		if op.ID == "" {
			continue
		}
		out[i] = seen[op.ID]
		seen[op.ID] = true
	}
	return out
}

// failureID labels a failed operation, falling back to its method and path
// when it has no identifier.
func failureID(op spec.Operation) string {
	if op.ID != "" {
		return op.ID
	}
	return string(op.Method) + " " + op.Path
}

// Failed lists the identifiers of operations that did not build.
func (r *Result) Failed() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.OperationID
	}
	return out
}
