package menu

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// Normalize folds display text into the form the classifier matches on:
// NFKC, lower case, straight apostrophes, single spaces, no outer whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Lower(language.Und).String(s)
	s = apostrophes.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
