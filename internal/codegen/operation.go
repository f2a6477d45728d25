package codegen

import (
	"fmt"
	"sort"

	"github.com/mark3labs/swagger2client/internal/logging"
	"github.com/mark3labs/swagger2client/internal/opname"
	"github.com/mark3labs/swagger2client/internal/spec"
)

// ParameterModel is a resolved operation parameter.
type ParameterModel struct {
	Name         string             `json:"name"`         // source name
	VariableName string             `json:"variableName"`
	Kind         spec.ParameterKind `json:"kind"`
	Type         string             `json:"type"`
	IsRequired   bool               `json:"isRequired"`
	IsOptional   bool               `json:"isOptional"`
	IsFile       bool               `json:"isFile"`
	IsDeprecated bool               `json:"isDeprecated"`
	// CollectionFormat is carried for the renderer's serialization.
	CollectionFormat string `json:"collectionFormat,omitempty"`
	Default          any    `json:"default,omitempty"`
	Description      string `json:"description,omitempty"`
}

// OperationModel is the fully resolved operation handed to the renderer.
type OperationModel struct {
	ID          string          `json:"id"`
	OperationID string          `json:"operationId,omitempty"`
	HTTPMethod  spec.HttpMethod `json:"httpMethod"`
	Path        string          `json:"path"`
	Summary     string          `json:"summary,omitempty"`
	Description string          `json:"description,omitempty"`

	Group  string `json:"group"`
	Method string `json:"method"`

	Parameters      []ParameterModel `json:"parameters"`
	Responses       []ResponseModel  `json:"responses"`
	PrimaryResponse *ResponseModel   `json:"primaryResponse,omitempty"`

	// UnwrappedResultType is empty for void operations.
	UnwrappedResultType string `json:"unwrappedResultType,omitempty"`
	// WrappedResultType is the result before asynchronous wrapping. Empty
	// for unwrapped void operations.
	WrappedResultType string `json:"wrappedResultType,omitempty"`
	ResultType        string `json:"resultType"`
	ExceptionType     string `json:"exceptionType"`
	IsDeprecated      bool   `json:"isDeprecated"`
}

// IsVoid reports an operation without a success payload.
func (m *OperationModel) IsVoid() bool { return m.UnwrappedResultType == "" }

// IsFileResult reports a file download result.
func (m *OperationModel) IsFileResult() bool {
	return m.PrimaryResponse != nil && m.PrimaryResponse.IsFile
}

// OperationModelBuilder assembles OperationModels. It only reads the shared
// TypeResolver, so one builder may serve concurrent Build calls.
type OperationModelBuilder struct {
	settings  Settings
	types     *TypeResolver
	names     ParameterNameResolver
	responses ResponseModelBuilder
	logger    logging.Logger
}

func NewOperationModelBuilder(settings Settings, types *TypeResolver) *OperationModelBuilder {
	settings = settings.normalized()
	return &OperationModelBuilder{
		settings:  settings,
		types:     types,
		names:     NewParameterNameResolver(settings.Language),
		responses: NewResponseModelBuilder(settings.Language, types),
		logger:    settings.Logger,
	}
}

// Build resolves one operation under the name assigned in phase one. The
// input operation and its schemas are not modified.
func (b *OperationModelBuilder) Build(op spec.Operation, name opname.Name) (*OperationModel, error) {
	if err := checkInput(op); err != nil {
		return nil, err
	}

	params := b.orderParameters(op.Parameters)
	vars, err := b.names.ResolveAll(op.ID, params)
	if err != nil {
		return nil, err
	}

	set, err := b.responses.Build(op)
	if err != nil {
		return nil, err
	}

	m := &OperationModel{
		ID:              op.ID,
		OperationID:     op.OperationID,
		HTTPMethod:      op.Method,
		Path:            op.Path,
		Summary:         op.Summary,
		Description:     op.Description,
		Group:           name.Group,
		Method:          name.Method,
		Parameters:      make([]ParameterModel, len(params)),
		Responses:       set.Responses,
		PrimaryResponse: set.Primary,
		ExceptionType:   set.ExceptionType,
		IsDeprecated:    op.Deprecated,
	}
	for i, p := range params {
		m.Parameters[i] = b.parameter(p, vars[i])
	}
	if set.Primary != nil && !set.Primary.IsVoid {
		m.UnwrappedResultType = set.Primary.Type
	}
	m.WrappedResultType, m.ResultType = b.resultType(m)

	b.logger.Debug("operation resolved", "operation", op.ID, "group", name.Group, "method", name.Method, "result", m.ResultType)
	return m, nil
}

func checkInput(op spec.Operation) error {
	if op.ID == "" {
		return &BuildError{Code: MissingInput, Message: fmt.Sprintf("operation %s %s has no identifier", op.Method, op.Path)}
	}
	for i, p := range op.Parameters {
		if p.Name == "" {
			return &BuildError{Code: MissingInput, OperationID: op.ID, Message: fmt.Sprintf("parameter %d has no name", i)}
		}
		if !p.Kind.Valid() {
			return &BuildError{
				Code:        MissingInput,
				OperationID: op.ID,
				Message:     fmt.Sprintf("parameter has unknown location %q", p.Kind),
				Parameters:  []string{p.Name},
			}
		}
	}
	return nil
}

// orderParameters returns a copy, stably sorted required-first when optional
// parameters are generated.
func (b *OperationModelBuilder) orderParameters(in []spec.Parameter) []spec.Parameter {
	params := append([]spec.Parameter(nil), in...)
	if b.settings.GenerateOptionalParameters {
		sort.SliceStable(params, func(i, j int) bool {
			return params[i].Required && !params[j].Required
		})
	}
	return params
}

func (b *OperationModelBuilder) parameter(p spec.Parameter, variable string) ParameterModel {
	lang := b.settings.Language
	ctx := TypeContext{
		Nullable:         !p.Required && lang.OptionalParametersNullable,
		CollectionFormat: p.CollectionFormat,
	}
	return ParameterModel{
		Name:             p.Name,
		VariableName:     variable,
		Kind:             p.Kind,
		Type:             b.types.Resolve(p.Schema, ctx),
		IsRequired:       p.Required,
		IsOptional:       !p.Required,
		IsFile:           isFileParameter(p),
		IsDeprecated:     p.Deprecated,
		CollectionFormat: p.CollectionFormat,
		Default:          p.Default,
		Description:      p.Description,
	}
}

func isFileParameter(p spec.Parameter) bool {
	s := p.Schema
	if s == nil {
		return false
	}
	if s.IsFile() || isRepeatedFilePart(s, p.CollectionFormat) {
		return true
	}
	return s.IsArray() && (s.Items.IsFile() || (s.Items == nil && s.Type.Has(spec.TypeFile)))
}

// resultType applies response wrapping and then the asynchronous completion
// type. File results skip wrapping.
func (b *OperationModelBuilder) resultType(m *OperationModel) (wrapped, result string) {
	lang := b.settings.Language
	switch {
	case m.IsFileResult():
		return lang.FileResponseType, lang.Async(lang.FileResponseType)
	case b.settings.WrapResponses:
		wrapper := b.settings.ResponseClassName(m.Group)
		switch {
		case !m.IsVoid():
			wrapped = lang.Generic(wrapper, m.UnwrappedResultType)
		case lang.VoidGenericArgument != "":
			wrapped = lang.Generic(wrapper, lang.VoidGenericArgument)
		default:
			wrapped = wrapper
		}
		return wrapped, lang.Async(wrapped)
	case m.IsVoid():
		return "", lang.AsyncVoidType
	}
	return m.UnwrappedResultType, lang.Async(m.UnwrappedResultType)
}
