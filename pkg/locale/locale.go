// Package locale maps storefront country codes to the locale string
// requested from the store. Resolution is deterministic: an explicit
// override always wins, otherwise the built-in country/language table
// decides.
package locale

import (
	"fmt"
	"strings"
)

// DefaultFallback is used for countries missing from the table.
const DefaultFallback = "en"

// countryLanguages maps ISO-3166 alpha-2 codes to the storefront's
// primary language.
var countryLanguages = map[string]string{
	"us": "en", "gb": "en", "ca": "en", "au": "en", "nz": "en",
	"sg": "en", "in": "en", "za": "en", "ie": "en",
	"tr": "tr",
	"de": "de", "at": "de", "ch": "de",
	"fr": "fr",
	"it": "it",
	"es": "es", "mx": "es", "ar": "es", "cl": "es", "co": "es", "pe": "es",
	"br": "pt", "pt": "pt",
	"nl": "nl", "be": "nl",
	"se": "sv", "no": "no", "dk": "da", "fi": "fi",
	"pl": "pl", "cz": "cs", "hu": "hu", "gr": "el", "ro": "ro", "sk": "sk",
	"jp": "ja", "kr": "ko",
	"cn": "zh", "tw": "zh", "hk": "zh",
	"id": "id", "my": "ms", "th": "th", "vn": "vi",
	"ru": "ru", "ua": "uk",
	"ae": "ar", "sa": "ar", "qa": "ar", "kw": "ar",
	"il": "he",
}

// DefaultLanguage returns the table language for a country, or the
// fallback for unknown codes.
func DefaultLanguage(country, fallback string) string {
	if fallback == "" {
		fallback = DefaultFallback
	}
	if lang, ok := countryLanguages[strings.ToLower(country)]; ok {
		return lang
	}
	return fallback
}

// Resolve returns the locale to request for a country. A non-empty
// override is returned unchanged (underscores normalized to hyphens);
// otherwise the result is "<lang>-<country>" from the built-in table.
func Resolve(country, override string) (string, error) {
	code := strings.ToLower(strings.TrimSpace(country))
	if code == "" {
		return "", fmt.Errorf("country code cannot be empty")
	}
	if o := strings.TrimSpace(override); o != "" {
		return strings.ReplaceAll(o, "_", "-"), nil
	}
	return fmt.Sprintf("%s-%s", DefaultLanguage(code, ""), code), nil
}

// ParseOverrides parses the CLI override flag format
// "tr:tr-tr,jp:ja-jp" into a country->locale map. Entries without a
// colon are skipped.
func ParseOverrides(s string) map[string]string {
	overrides := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		country, loc, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		country = strings.ToLower(strings.TrimSpace(country))
		loc = strings.TrimSpace(loc)
		if country != "" && loc != "" {
			overrides[country] = loc
		}
	}
	return overrides
}
