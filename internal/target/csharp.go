package target

// CSharp returns the C# record. Operation signatures expose interfaces
// (IEnumerable, IDictionary) and Task-based completion.
func CSharp() *Language {
	return &Language{
		Name:          "csharp",
		FileExtension: ".cs",
		Reserved: NewReservedWordTable(
			"abstract", "as", "base", "bool", "break", "byte", "case", "catch", "char", "checked", "class", "const", "continue",
			"decimal", "default", "delegate", "do", "double", "else", "enum", "event", "explicit", "extern", "false", "finally", "fixed", "float",
			"for", "foreach", "goto", "if", "implicit", "in", "int", "interface", "internal", "is", "lock", "long", "namespace", "new", "null", "object",
			"operator", "out", "override", "params", "private", "protected", "public", "readonly", "ref", "return", "sbyte", "sealed", "short", "sizeof",
			"stackalloc", "static", "string", "struct", "switch", "this", "throw", "true", "try", "typeof", "uint", "ulong", "unchecked", "unsafe",
			"ushort", "using", "virtual", "void", "volatile", "while",
			// trailing parameter of every client method
			"cancellationToken",
		),
		EscapePrefix:         "@",
		AnyType:              "object",
		VoidType:             "void",
		ExceptionType:        "System.Exception",
		DefaultExceptionName: "Exception",
		FileParameterType:    "FileParameter",
		FileResponseType:     "FileResponse",
		SequenceFormat:       "System.Collections.Generic.IEnumerable<%s>",
		DictionaryFormat:     "System.Collections.Generic.IDictionary<string, %s>",
		GenericFormat:        "%s<%s>",
		AsyncFormat:          "System.Threading.Tasks.Task<%s>",
		AsyncVoidType:        "System.Threading.Tasks.Task",
		NullableFormat:       "%s?",
		NullableTypes: map[string]bool{
			"int": true, "long": true, "float": true, "double": true, "decimal": true, "bool": true,
			"byte": true, "System.DateTimeOffset": true, "System.TimeSpan": true, "System.Guid": true,
		},
		EnumsAreValueTypes: true,

		OptionalParametersNullable: true,

		Primitives: map[string]string{
			"integer":          "int",
			"integer/int32":    "int",
			"integer/int64":    "long",
			"number":           "double",
			"number/float":     "float",
			"number/double":    "double",
			"number/decimal":   "decimal",
			"string":           "string",
			"string/date-time": "System.DateTimeOffset",
			"string/date":      "System.DateTimeOffset",
			"string/time-span": "System.TimeSpan",
			"string/uuid":      "System.Guid",
			"string/guid":      "System.Guid",
			"string/byte":      "byte[]",
			"string/uri":       "System.Uri",
			"boolean":          "bool",
		},
	}
}
