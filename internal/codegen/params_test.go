package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/mark3labs/swagger2client/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVariableName(t *testing.T) {
	t.Parallel()
	cs := NewParameterNameResolver(target.CSharp())
	str := primitive(spec.TypeString, "")
	all := []spec.Parameter{
		param("class", spec.InQuery, false, str),
		param("X-Request-Id", spec.InHeader, false, str),
		param("$top", spec.InQuery, false, str),
		param("1st", spec.InQuery, false, str),
		param("id", spec.InPath, true, str),
		param("id", spec.InQuery, false, str),
	}
	want := []string{"@class", "xRequestId", "top", "_1st", "idPath", "idQuery"}
	for i, p := range all {
		assert.Equal(t, want[i], cs.ResolveVariableName(p, all), p.Name)
	}
}

func TestReservedEscapingOnlyForReservedNames(t *testing.T) {
	t.Parallel()
	for _, lang := range []*target.Language{target.CSharp(), target.TypeScript(), target.Go()} {
		r := NewParameterNameResolver(lang)
		for _, name := range []string{"class", "default", "type", "delete", "string", "params", "id", "in", "for", "value", "Class", "map"} {
			p := param(name, spec.InQuery, false, nil)
			got := r.ResolveVariableName(p, []spec.Parameter{p})
			base := baseVariableName(p, []spec.Parameter{p})
			if lang.Reserved.Contains(base) {
				assert.Equal(t, lang.EscapePrefix+base, got, "%s/%s", lang.Name, name)
			} else {
				assert.Equal(t, base, got, "%s/%s", lang.Name, name)
			}
		}
	}
}

func TestEscapingKeepsKindSuffix(t *testing.T) {
	t.Parallel()
	r := NewParameterNameResolver(target.CSharp())
	params := []spec.Parameter{
		param("default", spec.InHeader, false, nil),
		param("default", spec.InQuery, false, nil),
	}
	names, err := r.ResolveAll("get /x", params)
	require.NoError(t, err)
	assert.Equal(t, []string{"defaultHeader", "defaultQuery"}, names)
}

func TestResolveAllReportsCollisions(t *testing.T) {
	t.Parallel()
	r := NewParameterNameResolver(target.CSharp())
	params := []spec.Parameter{
		param("page", spec.InQuery, false, nil),
		param("a-b", spec.InQuery, false, nil),
		param("a_b", spec.InQuery, false, nil),
	}
	_, err := r.ResolveAll("get /items", params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameCollision))

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, NameCollision, be.Code)
	assert.Equal(t, "get /items", be.OperationID)
	assert.Equal(t, []string{"a-b (query)", "a_b (query)"}, be.Parameters)
	assert.True(t, strings.Contains(err.Error(), "aBQuery"))
}
