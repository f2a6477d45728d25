package codegen

import (
	"errors"
	"testing"

	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/mark3labs/swagger2client/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseBuilder(t *testing.T, schemas ...*spec.Schema) ResponseModelBuilder {
	t.Helper()
	lang := target.CSharp()
	types := NewTypeResolver(lang, nil)
	named := map[string]*spec.Schema{}
	for _, s := range schemas {
		named[s.Name] = s
	}
	types.Register(named)
	return NewResponseModelBuilder(lang, types)
}

func TestIsSuccessStatusCode(t *testing.T) {
	t.Parallel()
	for code, want := range map[string]bool{
		"200": true, "201": true, "204": true, "299": true, "2XX": true, "2xx": true,
		"199": false, "300": false, "404": false, "default": false, "4XX": false, "": false, "abc": false,
	} {
		assert.Equal(t, want, IsSuccessStatusCode(code), code)
	}
}

func TestResponses_WidgetWithTwoErrors(t *testing.T) {
	t.Parallel()
	widget, notFound, serverErr := object("Widget", "id"), object("NotFoundError", "msg"), object("ServerError", "msg")
	b := newResponseBuilder(t, widget, notFound, serverErr)

	set, err := b.Build(spec.Operation{ID: "get /widget", Responses: []spec.Response{
		response("200", widget), response("404", notFound), response("500", serverErr),
	}})
	require.NoError(t, err)
	require.NotNil(t, set.Primary)
	assert.Equal(t, "200", set.Primary.StatusCode)
	assert.Equal(t, "Widget", set.Primary.Type)
	assert.True(t, set.Primary.IsPrimary)
	assert.Len(t, set.Errors, 2)
	assert.Equal(t, "System.Exception", set.ExceptionType)
}

func TestResponses_VoidWithValidationError(t *testing.T) {
	t.Parallel()
	validation := object("ValidationError", "errors")
	b := newResponseBuilder(t, validation)

	set, err := b.Build(spec.Operation{ID: "post /x", Responses: []spec.Response{
		response("200", nil), response("400", validation),
	}})
	require.NoError(t, err)
	require.NotNil(t, set.Primary)
	assert.True(t, set.Primary.IsVoid)
	assert.Empty(t, set.Primary.Type)
	assert.Equal(t, "ValidationError", set.ExceptionType)
}

func TestResponses_ExceptionType(t *testing.T) {
	t.Parallel()
	e := object("Problem", "title")
	b := newResponseBuilder(t, e)
	cases := []struct {
		name      string
		responses []spec.Response
		want      string
	}{
		{"no errors", []spec.Response{response("200", e)}, "System.Exception"},
		{"single error", []spec.Response{response("200", nil), response("default", e)}, "Problem"},
		{"single error without schema", []spec.Response{response("200", nil), response("404", nil)}, "Exception"},
		{"single unresolvable error", []spec.Response{response("409", &spec.Schema{})}, "Exception"},
		{"two errors", []spec.Response{response("400", e), response("500", e)}, "System.Exception"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := b.Build(spec.Operation{ID: "op", Responses: tc.responses})
			require.NoError(t, err)
			assert.Equal(t, tc.want, set.ExceptionType)
		})
	}
}

func TestResponses_NullableExceptionType(t *testing.T) {
	t.Parallel()
	problem := object("Problem", "title")
	for _, tc := range []struct {
		lang   *target.Language
		schema *spec.Schema
		want   string
	}{
		{target.TypeScript(), problem, "Problem | null"},
		{target.Go(), problem, "*Problem"},
		{target.CSharp(), problem, "Problem"},
		{target.CSharp(), primitive(spec.TypeInteger, ""), "int?"},
	} {
		t.Run(tc.lang.Name+" "+tc.want, func(t *testing.T) {
			types := NewTypeResolver(tc.lang, nil)
			types.Register(map[string]*spec.Schema{"Problem": problem})
			b := NewResponseModelBuilder(tc.lang, types)
			errResp := response("404", tc.schema)
			errResp.Nullable = true
			set, err := b.Build(spec.Operation{ID: "op", Responses: []spec.Response{response("200", nil), errResp}})
			require.NoError(t, err)
			require.Len(t, set.Errors, 1)
			assert.Equal(t, tc.want, set.ExceptionType)
			assert.Equal(t, set.Errors[0].Type, set.ExceptionType)
		})
	}
}

func TestResponses_PrimarySelection(t *testing.T) {
	t.Parallel()
	b := newResponseBuilder(t)
	str := primitive(spec.TypeString, "")
	cases := []struct {
		name      string
		responses []spec.Response
		want      string // "" for no primary
	}{
		{"lowest numeric wins", []spec.Response{response("204", nil), response("201", str), response("2XX", str), response("default", str)}, "201"},
		{"numeric beats wildcard regardless of order", []spec.Response{response("2XX", str), response("202", str)}, "202"},
		{"wildcard beats default", []spec.Response{response("2XX", str), response("default", str)}, "2XX"},
		{"default is success fallback", []spec.Response{response("default", str), response("404", nil)}, "default"},
		{"no success", []spec.Response{response("400", str), response("500", str)}, ""},
		{"none at all", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := b.Build(spec.Operation{ID: "op", Responses: tc.responses})
			require.NoError(t, err)
			primaries := 0
			for _, r := range set.Responses {
				if r.IsPrimary {
					primaries++
				}
			}
			if tc.want == "" {
				assert.Nil(t, set.Primary)
				assert.Zero(t, primaries)
				return
			}
			require.NotNil(t, set.Primary)
			assert.Equal(t, tc.want, set.Primary.StatusCode)
			assert.Equal(t, 1, primaries)
		})
	}
}

func TestResponses_DefaultIsErrorWhenSuccessExists(t *testing.T) {
	t.Parallel()
	b := newResponseBuilder(t)
	set, err := b.Build(spec.Operation{ID: "op", Responses: []spec.Response{
		response("200", nil), response("default", primitive(spec.TypeString, "")),
	}})
	require.NoError(t, err)
	require.Len(t, set.Errors, 1)
	assert.Equal(t, "default", set.Errors[0].StatusCode)
	assert.False(t, set.Responses[1].IsSuccess)
	assert.Equal(t, "string", set.ExceptionType)
}

func TestResponses_File(t *testing.T) {
	t.Parallel()
	b := newResponseBuilder(t)
	set, err := b.Build(spec.Operation{ID: "op", Responses: []spec.Response{
		{StatusCode: "200", Schema: &spec.Schema{Type: spec.TypeFile}, ContentType: "application/pdf"},
		{StatusCode: "206", ContentType: "application/octet-stream"},
	}})
	require.NoError(t, err)
	for _, r := range set.Responses {
		assert.True(t, r.IsFile, r.StatusCode)
		assert.False(t, r.IsVoid, r.StatusCode)
		assert.Equal(t, "FileResponse", r.Type)
	}
}

func TestResponses_Malformed(t *testing.T) {
	t.Parallel()
	b := newResponseBuilder(t)
	for name, responses := range map[string][]spec.Response{
		"empty code":     {response("", nil)},
		"duplicate code": {response("200", nil), response("200", nil)},
		"duplicate case": {response("2xx", nil), response("2XX", nil)},
		"not a code":     {response("ok", nil)},
		"out of range":   {response("600", nil)},
		"bad wildcard":   {response("2X0", nil)},
	} {
		_, err := b.Build(spec.Operation{ID: "op", Responses: responses})
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrMalformedResponses), name)
	}
}
