// Package titles turns file and directory names into human-readable labels.
package titles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var caser = cases.Title(language.English, cases.NoLower)

// Humanize replaces "-" and "_" separators with spaces and capitalizes the
// first letter of each word. Existing capitalization is preserved.
func Humanize(name string) string {
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return caser.String(name)
}
