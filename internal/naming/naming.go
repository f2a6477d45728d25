// Package naming converts source identifiers (tags, operation ids, parameter
// and schema names) into target-language identifier casing.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titler = cases.Title(language.Und, cases.NoLower)
	lower  = cases.Lower(language.Und)
)

// Words splits s on every rune that is not a letter or digit. '$' is dropped
// without breaking a word, so "$filter" and "a$b" give "filter" and "ab".
func Words(s string) []string {
	s = strings.ReplaceAll(s, "$", "")
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Pascal joins the words of s, upper-casing the first letter of each and
// leaving the rest untouched: "pet-store" -> "PetStore", "getPetById" ->
// "GetPetById". A leading digit is prefixed with "T".
func Pascal(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(titler.String(w))
	}
	out := b.String()
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "T" + out
	}
	return out
}

// LowerCamel is Pascal with the first rune lower-cased: "X-Trace" -> "xTrace",
// "user_id" -> "userId". A leading digit is prefixed with "_".
func LowerCamel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	first := []rune(words[0])
	b.WriteString(lower.String(string(first[0])))
	b.WriteString(string(first[1:]))
	for _, w := range words[1:] {
		b.WriteString(titler.String(w))
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}
