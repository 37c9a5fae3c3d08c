package types

// ColorMode selects the light or dark theme.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// Dark reports whether the mode is the dark theme.
func (m ColorMode) Dark() bool { return m == ColorModeDark }

// ColorModeOf maps the persisted dark-mode flag back to a ColorMode.
func ColorModeOf(dark bool) ColorMode {
	if dark {
		return ColorModeDark
	}
	return ColorModeLight
}

// Language is a BCP 47 language tag supported by the UI.
type Language string

// String returns the string form of the tag.
func (l Language) String() string { return string(l) }

// Supported UI languages.
const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
	LanguageArabic  Language = "ar"
)

// Languages lists every supported language, default first.
var Languages = []Language{LanguageEnglish, LanguageFrench, LanguageSpanish, LanguageArabic}
