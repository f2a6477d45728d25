package target

// ReservedWordTable is the set of identifiers a target language does not
// accept verbatim as a variable or parameter name. Lookups are exact and
// case-sensitive.
type ReservedWordTable map[string]struct{}

// NewReservedWordTable builds a table from words.
func NewReservedWordTable(words ...string) ReservedWordTable {
	t := make(ReservedWordTable, len(words))
	for _, w := range words {
		t[w] = struct{}{}
	}
	return t
}

// Contains reports whether name is reserved.
func (t ReservedWordTable) Contains(name string) bool {
	_, ok := t[name]
	return ok
}
