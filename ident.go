package assetgen

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ident returns the Go identifier bound to the resource at path. It depends on
// the file base name only, so the same file name in two directories yields the
// same identifier.
func Ident(path string) string {
	base := filepath.Base(path)
	return Sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Sanitize turns name into an exported Go identifier. Runs of characters that
// are not letters or digits separate words, and every word is title-cased:
//
//	cat         -> Cat
//	hero-walk_1 -> HeroWalk1
//	2d map      -> X2DMap
//
// Sanitize is pure and idempotent.
func Sanitize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	// Casers keep state and must not be shared between goroutines.
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	s := b.String()
	if s == "" {
		return "X"
	}
	if r := []rune(s)[0]; !unicode.IsUpper(r) {
		s = "X" + s
	}
	return s
}
