package models

// Theme is the persisted light/dark preference. It survives logout: the
// preference is install-scoped, not session-scoped.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value back to a Theme, defaulting to light
// for anything unrecognized.
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) IsDark() bool { return t == ThemeDark }

// Toggled returns the opposite preference.
func (t Theme) Toggled() Theme {
	if t.IsDark() {
		return ThemeLight
	}
	return ThemeDark
}
