package types

// SettingKey is the stable backend key a setting is persisted under.
type SettingKey string

// String returns the string form of the key.
func (k SettingKey) String() string { return string(k) }

// Well-known setting keys. Each key is owned by exactly one store.
const (
	KeySession  SettingKey = "session"
	KeyDarkMode SettingKey = "dark-mode"
	KeyLanguage SettingKey = "language"
)

// Route is an application location such as "/dashboard" or "/auth/login".
type Route string

// String returns the string form of the route.
func (r Route) String() string { return string(r) }
