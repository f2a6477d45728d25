package target

// Go returns the Go record. Go has no async wrapper; the calling convention
// is a (result, error) pair, which AsyncFormat spells out.
func Go() *Language {
	return &Language{
		Name:          "go",
		FileExtension: ".go",
		Reserved: NewReservedWordTable(
			"break", "case", "chan", "const", "continue", "default", "defer", "else", "fallthrough", "for",
			"func", "go", "goto", "if", "import", "interface", "map", "package", "range", "return",
			"select", "struct", "switch", "type", "var",
			// taken by the context parameter of every client method
			"ctx",
		),
		EscapePrefix:         "_",
		AnyType:              "any",
		VoidType:             "",
		ExceptionType:        "error",
		DefaultExceptionName: "Exception",
		FileParameterType:    "FileParameter",
		FileResponseType:     "*FileResponse",
		SequenceFormat:       "[]%s",
		DictionaryFormat:     "map[string]%s",
		GenericFormat:        "%s[%s]",
		VoidGenericArgument:  "struct{}",
		AsyncFormat:          "(%s, error)",
		AsyncVoidType:        "error",
		NullableFormat:       "*%s",
		NilableContainers:    true,
		Primitives: map[string]string{
			"integer":          "int",
			"integer/int32":    "int32",
			"integer/int64":    "int64",
			"number":           "float64",
			"number/float":     "float32",
			"number/double":    "float64",
			"string":           "string",
			"string/date-time": "time.Time",
			"string/byte":      "[]byte",
			"boolean":          "bool",
		},
	}
}
