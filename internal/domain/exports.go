package domain

import (
	interfaces "appstate/internal/domain/interfaces"
	types "appstate/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SettingKey = types.SettingKey
	Route      = types.Route
	UserID     = types.UserID
	User       = types.User
	Session    = types.Session
	ColorMode  = types.ColorMode
	Language   = types.Language
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Backend           = interfaces.Backend
	SessionService    = interfaces.SessionService
	PreferenceService = interfaces.PreferenceService
	Navigator         = interfaces.Navigator
	AuthClient        = interfaces.AuthClient
)

// ColorModeOf maps the persisted dark-mode flag back to a ColorMode.
func ColorModeOf(dark bool) ColorMode { return types.ColorModeOf(dark) }

// Languages lists every supported language, default first.
var Languages = types.Languages

// Re-exported constants.
const (
	KeySession  = types.KeySession
	KeyDarkMode = types.KeyDarkMode
	KeyLanguage = types.KeyLanguage

	ColorModeLight = types.ColorModeLight
	ColorModeDark  = types.ColorModeDark

	LanguageEnglish = types.LanguageEnglish
	LanguageFrench  = types.LanguageFrench
	LanguageSpanish = types.LanguageSpanish
	LanguageArabic  = types.LanguageArabic
)
