package domain

// Language codes accepted by the API.
const (
	LangEnglish = "en"
	LangUrdu    = "ur"
)

// Localized picks the Urdu text when lang is Urdu and a translation exists.
func Localized(en, ur, lang string) string {
	if lang == LangUrdu && ur != "" {
		return ur
	}
	return en
}

// NormalizeLang maps anything but "ur" to English.
func NormalizeLang(lang string) string {
	if lang == LangUrdu {
		return LangUrdu
	}
	return LangEnglish
}
