package codegen

import (
	"fmt"

	"github.com/mark3labs/swagger2client/internal/naming"
	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/mark3labs/swagger2client/internal/target"
)

// ParameterNameResolver produces variable names for operation parameters.
type ParameterNameResolver struct {
	lang *target.Language
}

func NewParameterNameResolver(lang *target.Language) ParameterNameResolver {
	return ParameterNameResolver{lang: lang}
}

// ResolveVariableName returns the identifier for param among all parameters
// of its operation. Escaping only prepends the language's prefix, so it never
// touches the kind suffix that distinguishes same-named parameters.
func (p ParameterNameResolver) ResolveVariableName(param spec.Parameter, all []spec.Parameter) string {
	return p.lang.Escape(baseVariableName(param, all))
}

// ResolveAll resolves every parameter in order and fails with a NameCollision
// when two of them end up with the same identifier.
func (p ParameterNameResolver) ResolveAll(operationID string, params []spec.Parameter) ([]string, error) {
	names := make([]string, len(params))
	owner := make(map[string]int, len(params))
	for i, param := range params {
		name := p.ResolveVariableName(param, params)
		if j, dup := owner[name]; dup {
			return nil, &BuildError{
				Code:        NameCollision,
				OperationID: operationID,
				Message:     fmt.Sprintf("parameters resolve to the same identifier %q", name),
				Parameters:  []string{describe(params[j]), describe(param)},
			}
		}
		owner[name] = i
		names[i] = name
	}
	return names, nil
}

// baseVariableName lower-camel-cases the source name. When another parameter
// of the operation shares the base name, the location is appended: idPath,
// idQuery.
func baseVariableName(param spec.Parameter, all []spec.Parameter) string {
	base := variableBase(param.Name)
	for _, other := range all {
		if other.Name == param.Name && other.Kind == param.Kind {
			continue
		}
		if variableBase(other.Name) == base {
			return base + naming.Pascal(string(param.Kind))
		}
	}
	return base
}

func variableBase(name string) string {
	if n := naming.LowerCamel(name); n != "" {
		return n
	}
	return "param"
}

func describe(p spec.Parameter) string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Kind)
}
