package opname

import (
	"testing"

	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func op(method spec.HttpMethod, path, operationID string, tags ...string) spec.Operation {
	return spec.Operation{
		ID:          string(method) + " " + path,
		Method:      method,
		Path:        path,
		OperationID: operationID,
		Tags:        tags,
	}
}

func TestFirstTag(t *testing.T) {
	t.Parallel()
	ops := []spec.Operation{
		op(spec.GET, "/pets", "listPets", "pets"),
		op(spec.GET, "/pets/{petId}", "", "pets"),
		op(spec.POST, "/store/order", "place-order", "store front"),
		op(spec.GET, "/health", ""),
	}
	got, err := FirstTag{}.Assign(ops)
	require.NoError(t, err)
	assert.Equal(t, Assignment{
		"get /pets":         {Group: "Pets", Method: "ListPets"},
		"get /pets/{petId}": {Group: "Pets", Method: "GetPetsByPetId"},
		"post /store/order": {Group: "StoreFront", Method: "PlaceOrder"},
		"get /health":       {Group: DefaultGroup, Method: "GetHealth"},
	}, got)
}

func TestOperationID(t *testing.T) {
	t.Parallel()
	ops := []spec.Operation{
		op(spec.GET, "/pets", "pets_list"),
		op(spec.DELETE, "/pets/{id}", "pets_delete_one"),
		op(spec.GET, "/ping", "ping"),
		op(spec.GET, "/odd", "odd_"),
	}
	got, err := OperationID{}.Assign(ops)
	require.NoError(t, err)
	assert.Equal(t, Name{Group: "Pets", Method: "List"}, got["get /pets"])
	assert.Equal(t, Name{Group: "Pets", Method: "DeleteOne"}, got["delete /pets/{id}"])
	assert.Equal(t, Name{Group: DefaultGroup, Method: "Ping"}, got["get /ping"])
	assert.Equal(t, Name{Group: DefaultGroup, Method: "Odd"}, got["get /odd"])
}

func TestSingleClient(t *testing.T) {
	t.Parallel()
	ops := []spec.Operation{
		op(spec.GET, "/pets", "list", "pets"),
		op(spec.GET, "/users", "list", "users"),
	}
	got, err := SingleClient{}.Assign(ops)
	require.NoError(t, err)
	assert.Equal(t, Name{Group: DefaultGroup, Method: "List"}, got["get /pets"])
	assert.Equal(t, Name{Group: DefaultGroup, Method: "List2"}, got["get /users"])
}

func TestPathSegments(t *testing.T) {
	t.Parallel()
	ops := []spec.Operation{
		op(spec.GET, "/pets", ""),
		op(spec.GET, "/pets/{id}", ""),
		op(spec.POST, "/pets/{id}/photo", "uploadPhoto"),
		op(spec.GET, "/{tenant}/info", ""),
	}
	got, err := PathSegments{}.Assign(ops)
	require.NoError(t, err)
	assert.Equal(t, Name{Group: "Pets", Method: "Get"}, got["get /pets"])
	assert.Equal(t, Name{Group: "Pets", Method: "GetById"}, got["get /pets/{id}"])
	assert.Equal(t, Name{Group: "Pets", Method: "UploadPhoto"}, got["post /pets/{id}/photo"])
	assert.Equal(t, Name{Group: DefaultGroup, Method: "GetByTenantInfo"}, got["get /{tenant}/info"])
}

func TestMethodsAreUniqueWithinGroup(t *testing.T) {
	t.Parallel()
	ops := []spec.Operation{
		op(spec.GET, "/a", "get", "x"),
		op(spec.GET, "/b", "get", "x"),
		op(spec.GET, "/c", "get2", "x"),
		op(spec.GET, "/d", "get", "x"),
		op(spec.GET, "/e", "get", "y"),
	}
	got, err := FirstTag{}.Assign(ops)
	require.NoError(t, err)
	assert.Equal(t, "Get", got["get /a"].Method)
	assert.Equal(t, "Get2", got["get /b"].Method)
	assert.Equal(t, "Get22", got["get /c"].Method)
	assert.Equal(t, "Get3", got["get /d"].Method)
	assert.Equal(t, "Get", got["get /e"].Method, "other groups are independent")

	seen := map[Name]bool{}
	for _, n := range got {
		assert.False(t, seen[n], "duplicate %v", n)
		seen[n] = true
	}
}

func TestAssignSkipsBadIdentifiers(t *testing.T) {
	t.Parallel()
	got, err := FirstTag{}.Assign([]spec.Operation{{Method: spec.GET, Path: "/x"}, op(spec.GET, "/y", "")})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "GetY", got["get /y"].Method)

	first := op(spec.GET, "/x", "")
	second := op(spec.POST, "/x", "")
	second.ID = first.ID
	got, err = SingleClient{}.Assign([]spec.Operation{first, second})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GetX", got[first.ID].Method, "the first occurrence keeps the identifier")
}

func TestByName(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]Generator{
		"":              FirstTag{},
		"tags":          FirstTag{},
		"operation-id":  OperationID{},
		"single":        SingleClient{},
		"Path-Segments": PathSegments{},
	} {
		got, err := ByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ByName("random")
	require.Error(t, err)
}
