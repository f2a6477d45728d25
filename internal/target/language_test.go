package target

import (
	"testing"

	"github.com/mark3labs/swagger2client/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()
	for tag, want := range map[string]string{
		"csharp": "csharp", "C#": "csharp", "cs": "csharp",
		"typescript": "typescript", "TS": "typescript",
		"go": "go", " golang ": "go",
	} {
		lang, err := Lookup(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, lang.Name, tag)
	}

	_, err := Lookup("cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csharp, go, typescript")
}

func TestLookupReturnsFreshRecords(t *testing.T) {
	t.Parallel()
	a, _ := Lookup("csharp")
	b, _ := Lookup("csharp")
	a.EscapePrefix = "!"
	assert.Equal(t, "@", b.EscapePrefix)
}

func TestEscape(t *testing.T) {
	t.Parallel()
	cs := CSharp()
	assert.Equal(t, "@class", cs.Escape("class"))
	assert.Equal(t, "Class", cs.Escape("Class"), "lookups are case-sensitive")
	assert.Equal(t, "id", cs.Escape("id"))

	ts := TypeScript()
	assert.Equal(t, "_delete", ts.Escape("delete"))
	assert.Equal(t, "class_", ts.Escape("class_"))

	g := Go()
	assert.Equal(t, "_type", g.Escape("type"))
	assert.Equal(t, "string", g.Escape("string"), "predeclared identifiers are not keywords")
}

func TestContainers(t *testing.T) {
	t.Parallel()
	cs := CSharp()
	assert.Equal(t, "System.Collections.Generic.IEnumerable<int>", cs.Sequence("int"))
	assert.Equal(t, "System.Collections.Generic.IDictionary<string, Pet>", cs.Dictionary("Pet"))
	assert.Equal(t, "System.Threading.Tasks.Task<Pet>", cs.Async("Pet"))
	assert.Equal(t, "PetsResponse<Pet>", cs.Generic("PetsResponse", "Pet"))

	g := Go()
	assert.Equal(t, "[]int64", g.Sequence("int64"))
	assert.Equal(t, "map[string]any", g.Dictionary("any"))
	assert.Equal(t, "(Pet, error)", g.Async("Pet"))
	assert.Equal(t, "Response[Pet]", g.Generic("Response", "Pet"))

	ts := TypeScript()
	assert.Equal(t, "ReadonlyArray<string>", ts.Sequence("string"))
	assert.Equal(t, "Promise<void>", ts.AsyncVoidType)
}

func TestNullable(t *testing.T) {
	t.Parallel()
	cs := CSharp()
	assert.Equal(t, "int?", cs.Nullable("int"))
	assert.Equal(t, "string", cs.Nullable("string"), "reference types stay as is")
	assert.Equal(t, "object", cs.Nullable("object"))

	ts := TypeScript()
	assert.Equal(t, "Pet | null", ts.Nullable("Pet"))
	assert.Equal(t, "any", ts.Nullable("any"))
	assert.Equal(t, "ReadonlyArray<Pet> | null", ts.Nullable("ReadonlyArray<Pet>"))
	assert.Equal(t, "Readonly<Record<string, number>> | null", ts.Nullable("Readonly<Record<string, number>>"))

	g := Go()
	assert.Equal(t, "*int", g.Nullable("int"))
	assert.Equal(t, "[]int", g.Nullable("[]int"))
	assert.Equal(t, "map[string]int", g.Nullable("map[string]int"))
}

func TestNullableIsIdempotent(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		lang *Language
		in   string
	}{
		{CSharp(), "int"},
		{TypeScript(), "number"},
		{TypeScript(), "ReadonlyArray<Pet>"},
		{Go(), "int"},
		{Go(), "Pet"},
	} {
		once := tc.lang.Nullable(tc.in)
		assert.Equal(t, once, tc.lang.Nullable(once), "%s %s", tc.lang.Name, tc.in)
		assert.Equal(t, once, tc.lang.NullableEnum(once), "%s %s", tc.lang.Name, tc.in)
	}
}

func TestNonNullable(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Problem", Go().NonNullable("*Problem"))
	assert.Equal(t, "Problem", TypeScript().NonNullable("Problem | null"))
	assert.Equal(t, "int", CSharp().NonNullable("int?"))
	assert.Equal(t, "Problem", CSharp().NonNullable("Problem"))
	assert.Equal(t, "*", Go().NonNullable("*"))
}

func TestNullableEnum(t *testing.T) {
	t.Parallel()
	cs := CSharp()
	assert.Equal(t, "Color", cs.Nullable("Color"), "classes are reference types")
	assert.Equal(t, "Color?", cs.NullableEnum("Color"))
	assert.Equal(t, "Color?", cs.NullableEnum("Color?"))

	assert.Equal(t, "Color | null", TypeScript().NullableEnum("Color"))
	assert.Equal(t, "*Color", Go().NullableEnum("Color"))
}

func TestPrimitive(t *testing.T) {
	t.Parallel()
	cs := CSharp()
	cases := []struct {
		typ    spec.JSONType
		format string
		want   string
		ok     bool
	}{
		{spec.TypeInteger, "", "int", true},
		{spec.TypeInteger, "int64", "long", true},
		{spec.TypeInteger | spec.TypeNull, "int64", "long", true},
		{spec.TypeString, "date-time", "System.DateTimeOffset", true},
		{spec.TypeString, "email", "string", true},
		{spec.TypeNumber, "decimal", "decimal", true},
		{spec.TypeBoolean, "", "bool", true},
		{spec.TypeNone, "", "", false},
		{spec.TypeString | spec.TypeInteger, "", "", false},
	}
	for _, tc := range cases {
		got, ok := cs.Primitive(tc.typ, tc.format)
		assert.Equal(t, tc.ok, ok, "%s/%s", tc.typ, tc.format)
		assert.Equal(t, tc.want, got, "%s/%s", tc.typ, tc.format)
	}
}

func TestReservedWordTable(t *testing.T) {
	t.Parallel()
	tbl := NewReservedWordTable("if", "else")
	assert.True(t, tbl.Contains("if"))
	assert.False(t, tbl.Contains("If"))
	assert.False(t, tbl.Contains(""))
}
