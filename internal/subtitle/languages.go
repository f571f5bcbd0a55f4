package subtitle

import (
	"strings"

	"golang.org/x/text/language"
)

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"nl": "Dutch",
	"sv": "Swedish",
	"pl": "Polish",
	"tr": "Turkish",
}

// LanguageName returns a display name for a caption language code. Regional
// tags such as "en-US" fall back to their base language; anything else is
// shown as the uppercased code.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	if tag, err := language.Parse(code); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			if name, ok := languageNames[base.String()]; ok {
				return name
			}
		}
	}
	return strings.ToUpper(code)
}
