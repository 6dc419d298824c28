package detector

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// NameForCode returns the English display name of a BCP 47 language code
// such as "ar", "en-US" or "pt-br".
func NameForCode(code string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil || tag == language.Und {
		return "", false
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return "", false
	}
	return name, true
}

// BaseCode reduces a language code to its ISO 639-1 base ("en-US" -> "en").
// Codes that do not parse are returned lower-cased and unchanged.
func BaseCode(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(code))
	}
	base, _ := tag.Base()
	return base.String()
}
