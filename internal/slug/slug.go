// Package slug derives file names and record IDs from user supplied titles and filenames.
package slug

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonIDChars = regexp.MustCompile(`[^a-z0-9]+`)
	lower      = cases.Lower(language.Und)
)

// Title lowercases the title and turns whitespace runs into hyphens. Path
// separators become hyphens too so the result always names a single file.
func Title(title string) string {
	s := lower.String(strings.TrimSpace(title))
	s = whitespace.ReplaceAllString(s, "-")
	s = strings.NewReplacer("/", "-", `\`, "-").Replace(s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}

// DescriptionFilename is the Markdown filename for a description titled title.
func DescriptionFilename(title string) string {
	s := Title(title)
	if s == "" {
		return ""
	}
	return s + ".md"
}

// ID sanitizes an image filename into a record ID: the extension is dropped,
// accents are folded and anything outside [a-z0-9] collapses into single hyphens.
func ID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, base)
	if err != nil {
		folded = base
	}

	s := nonIDChars.ReplaceAllString(lower.String(folded), "-")
	return strings.Trim(s, "-")
}

// NewToken returns a timestamp-ordered unique token used when no filename is available.
func NewToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
