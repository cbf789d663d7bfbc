package team

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that have no decomposition into base letter plus mark.
var transliterations = strings.NewReplacer(
	"þ", "th", "Þ", "th",
	"ð", "d", "Ð", "d",
	"æ", "ae", "Æ", "ae",
	"ø", "o", "Ø", "o",
	"œ", "oe", "Œ", "oe",
	"ß", "ss",
	"ł", "l", "Ł", "l",
	"&", " and ",
)

// Slugify derives the lowercase URL-safe key for a team name, for example
// "Þór Akureyri" becomes "thor-akureyri".
func Slugify(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		transliterations.Replace(name),
	)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '/':
			pendingDash = true
		}
	}

	return b.String()
}
