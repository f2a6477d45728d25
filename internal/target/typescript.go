package target

func TypeScript() *Language {
	return &Language{
		Name:          "typescript",
		FileExtension: ".ts",
		Reserved: NewReservedWordTable(
			"break", "case", "catch", "class", "const", "continue", "debugger", "default", "delete", "do",
			"else", "enum", "export", "extends", "false", "finally", "for", "function", "if", "import",
			"in", "instanceof", "new", "null", "return", "super", "switch", "this", "throw", "true",
			"try", "typeof", "var", "void", "while", "with",
			// strict mode
			"implements", "interface", "let", "package", "private", "protected", "public", "static", "yield",
			"await",
		),
		EscapePrefix:         "_",
		AnyType:              "any",
		VoidType:             "void",
		ExceptionType:        "Error",
		DefaultExceptionName: "Exception",
		FileParameterType:    "FileParameter",
		FileResponseType:     "FileResponse",
		SequenceFormat:       "ReadonlyArray<%s>",
		DictionaryFormat:     "Readonly<Record<string, %s>>",
		GenericFormat:        "%s<%s>",
		AsyncFormat:          "Promise<%s>",
		AsyncVoidType:        "Promise<void>",
		NullableFormat:       "%s | null",
		Primitives: map[string]string{
			"integer":          "number",
			"number":           "number",
			"string":           "string",
			"string/date-time": "Date",
			"string/date":      "Date",
			"boolean":          "boolean",
		},
	}
}
