package i18n

// Supported locales. Kurdish (Sorani) and Arabic render right-to-left.
const (
	LocaleEN = "en"
	LocaleKU = "ku"
	LocaleAR = "ar"
)

// Translator is a read-only key -> string lookup per locale. Dictionaries are
// fixed at build time; there is no runtime mutation.
type Translator struct {
	fallback     string
	dictionaries map[string]map[string]string
}

// New builds a Translator with the built-in dictionaries. An unknown fallback
// locale degrades to English.
func New(fallback string) *Translator {
	if _, ok := dictionaries[fallback]; !ok {
		fallback = LocaleEN
	}
	return &Translator{fallback: fallback, dictionaries: dictionaries}
}

// Translate resolves a key for the locale, trying the fallback locale next and
// finally returning the key itself so missing entries stay visible in the UI.
func (t *Translator) Translate(key, locale string) string {
	if dict, ok := t.dictionaries[locale]; ok {
		if value, ok := dict[key]; ok {
			return value
		}
	}
	if dict, ok := t.dictionaries[t.fallback]; ok {
		if value, ok := dict[key]; ok {
			return value
		}
	}
	return key
}

// Dictionary returns the full key map for a locale so the frontend can load it
// in one request. Unknown locales yield the fallback dictionary.
func (t *Translator) Dictionary(locale string) map[string]string {
	dict, ok := t.dictionaries[locale]
	if !ok {
		dict = t.dictionaries[t.fallback]
	}
	result := make(map[string]string, len(dict))
	for k, v := range dict {
		result[k] = v
	}
	return result
}

// Supported reports whether the locale has a dictionary.
func Supported(locale string) bool {
	_, ok := dictionaries[locale]
	return ok
}

// IsRTL reports whether the locale renders right-to-left.
func IsRTL(locale string) bool {
	return locale == LocaleKU || locale == LocaleAR
}

// Locales lists the supported locale codes.
func Locales() []string {
	return []string{LocaleEN, LocaleKU, LocaleAR}
}
