// Package opname assigns each operation a (client group, method) name pair.
// Policies are plain values implementing Generator; the resolution engine only
// sees the Assignment they return.
package opname

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2client/internal/naming"
	"github.com/mark3labs/swagger2client/internal/spec"
)

// DefaultGroup is the group of operations that fall back to the single
// default client.
const DefaultGroup = ""

// Name is the client group and method name of one operation.
type Name struct {
	Group  string
	Method string
}

// Assignment maps Operation.ID to its name.
type Assignment map[string]Name

// Generator assigns names across the whole operation set. Within one group no
// two operations share a method name.
type Generator interface {
	Assign(ops []spec.Operation) (Assignment, error)
}

// ByName returns the policy for a config or flag value.
func ByName(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tags", "first-tag":
		return FirstTag{}, nil
	case "operation-id", "operationid":
		return OperationID{}, nil
	case "single", "single-client":
		return SingleClient{}, nil
	case "path-segments", "path":
		return PathSegments{}, nil
	}
	return nil, fmt.Errorf("opname: unknown operation name generator %q (allowed: tags, operation-id, single, path-segments)", name)
}

// FirstTag groups by the first tag and names methods after the operationId,
// synthesizing one from verb and path when it is absent.
type FirstTag struct{}

func (FirstTag) Assign(ops []spec.Operation) (Assignment, error) {
	return assign(ops, func(op spec.Operation) Name {
		group := DefaultGroup
		if len(op.Tags) > 0 {
			group = naming.Pascal(op.Tags[0])
		}
		return Name{Group: group, Method: methodName(op, op.Path)}
	})
}

// OperationID splits "Group_Method" operation ids on the first underscore.
type OperationID struct{}

func (OperationID) Assign(ops []spec.Operation) (Assignment, error) {
	return assign(ops, func(op spec.Operation) Name {
		if group, method, ok := strings.Cut(op.OperationID, "_"); ok && naming.Pascal(method) != "" {
			return Name{Group: naming.Pascal(group), Method: naming.Pascal(method)}
		}
		return Name{Group: DefaultGroup, Method: methodName(op, op.Path)}
	})
}

// SingleClient puts every operation in the default group.
type SingleClient struct{}

func (SingleClient) Assign(ops []spec.Operation) (Assignment, error) {
	return assign(ops, func(op spec.Operation) Name {
		return Name{Group: DefaultGroup, Method: methodName(op, op.Path)}
	})
}

// PathSegments groups by the first literal path segment. Without an
// operationId the method is the verb plus the remaining segments.
type PathSegments struct{}

func (PathSegments) Assign(ops []spec.Operation) (Assignment, error) {
	return assign(ops, func(op spec.Operation) Name {
		segments := pathSegments(op.Path)
		if len(segments) == 0 || isParam(segments[0]) {
			return Name{Group: DefaultGroup, Method: methodName(op, op.Path)}
		}
		rest := "/" + strings.Join(segments[1:], "/")
		return Name{Group: naming.Pascal(segments[0]), Method: methodName(op, rest)}
	})
}

// assign names every operation with an identifier. Operations without one,
// and later repeats of an identifier, get no entry; the caller reports them.
func assign(ops []spec.Operation, name func(spec.Operation) Name) (Assignment, error) {
	out := make(Assignment, len(ops))
	used := map[string]map[string]bool{}
	for _, op := range ops {
		if op.ID == "" {
			continue
		}
		if _, dup := out[op.ID]; dup {
			continue
		}
		n := name(op)
		if n.Method == "" {
			n.Method = "Operation"
		}
		taken := used[n.Group]
		if taken == nil {
			taken = map[string]bool{}
			used[n.Group] = taken
		}
		n.Method = uniqueMethod(n.Method, taken)
		taken[n.Method] = true
		out[op.ID] = n
	}
	return out, nil
}

func uniqueMethod(method string, taken map[string]bool) string {
	if !taken[method] {
		return method
	}
	for i := 2; ; i++ {
		candidate := method + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// methodName prefers the operationId; otherwise it builds <Verb><PathWords>
// where a path parameter contributes By<Name>.
func methodName(op spec.Operation, path string) string {
	if op.OperationID != "" {
		if m := naming.Pascal(op.OperationID); m != "" {
			return m
		}
	}
	var b strings.Builder
	b.WriteString(naming.Pascal(string(op.Method)))
	for _, seg := range pathSegments(path) {
		if isParam(seg) {
			b.WriteString("By")
			b.WriteString(naming.Pascal(strings.Trim(seg, "{}")))
			continue
		}
		b.WriteString(naming.Pascal(seg))
	}
	return b.String()
}

func pathSegments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
