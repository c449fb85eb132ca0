package cli

import "context"

// Theme shows or changes the persisted light/dark preference.
func (a *App) Theme(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.printf("theme: %s", a.theme.Current())
		return
	}

	switch args[0] {
	case "dark":
		a.theme.Set(ctx, true)
	case "light":
		a.theme.Set(ctx, false)
	case "toggle":
		a.theme.Toggle(ctx)
	default:
		a.printf("usage: theme [dark|light|toggle]")
		return
	}
	a.printOK("theme set to %s", a.theme.Current())
}
