package language

import "strings"

type language struct {
	display string
	// ISO 639-2 codes (including bibliographic variants) and full
	// English word forms that should resolve to this language.
	aliases []string
}

var supported = map[string]language{
	"en": {"English", []string{"eng", "english"}},
	"es": {"Spanish", []string{"spa", "spanish"}},
	"fr": {"French", []string{"fra", "fre", "french"}},
	"de": {"German", []string{"deu", "ger", "german"}},
	"it": {"Italian", []string{"ita", "italian"}},
	"pt": {"Portuguese", []string{"por", "portuguese"}},
	"ja": {"Japanese", []string{"jpn", "japanese"}},
	"ko": {"Korean", []string{"kor", "korean"}},
	"zh": {"Chinese", []string{"zho", "chi", "chinese"}},
	"ru": {"Russian", []string{"rus", "russian"}},
	"ar": {"Arabic", []string{"ara", "arabic"}},
	"hi": {"Hindi", []string{"hin", "hindi"}},
	"nl": {"Dutch", []string{"nld", "dut", "dutch"}},
	"pl": {"Polish", []string{"pol", "polish"}},
	"uk": {"Ukrainian", []string{"ukr", "ukrainian"}},
	"sv": {"Swedish", []string{"swe", "swedish"}},
	"da": {"Danish", []string{"dan", "danish"}},
	"no": {"Norwegian", []string{"nor", "norwegian"}},
	"fi": {"Finnish", []string{"fin", "finnish"}},
}

// aliasIndex maps every alias (and the 2-letter code itself) to its code.
var aliasIndex = func() map[string]string {
	index := make(map[string]string, len(supported)*4)
	for code, lang := range supported {
		index[code] = code
		for _, alias := range lang.aliases {
			index[alias] = code
		}
	}
	return index
}()

// ToISO2 converts any recognized language code or word to ISO 639-1
// (2-letter). Unrecognized 2-letter input passes through unchanged so that
// languages outside the table still reach the transcription engine;
// anything else unrecognized returns "".
func ToISO2(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if code, ok := aliasIndex[hint]; ok {
		return code
	}
	if len(hint) == 2 {
		return hint
	}
	return ""
}

// Display returns the human-readable name for a recognized language, or the
// trimmed input unchanged when unknown.
func Display(hint string) string {
	if code, ok := aliasIndex[strings.ToLower(strings.TrimSpace(hint))]; ok {
		return supported[code].display
	}
	return strings.TrimSpace(hint)
}
