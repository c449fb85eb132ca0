package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

func (a *App) status() string {
	if session := a.auth.Session(); session.Authenticated && session.User != nil {
		return fmt.Sprintf("(%s)", session.User.Email)
	}
	return ""
}

// Root runs the prompt loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	a.printf("SerenVoice CLI, type 'help' for commands")

	prompt := color.New(color.FgCyan)

	for {
		prompt.Fprintf(a.out, "serenvoice %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		if !a.dispatch(ctx, line) {
			return
		}
	}
}

// dispatch executes one command line; false means exit.
func (a *App) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		a.Help()
	case "register":
		a.Register(ctx)
	case "login":
		a.Login(ctx)
	case "logout":
		a.Logout(ctx)
	case "whoami":
		a.WhoAmI()
	case "theme":
		a.Theme(ctx, args)
	case "groups":
		a.Groups(ctx)
	case "members":
		a.GroupMembers(ctx, args)
	case "activities":
		a.Activities(ctx)
	case "record":
		a.Record(ctx, args)
	case "analysis":
		a.Analysis(ctx, args)
	case "recs":
		a.Recommendations(ctx)
	case "exit", "quit":
		return false
	default:
		a.printf("unknown command %q, type 'help'", cmd)
	}
	return true
}

func (a *App) Help() {
	if a.auth.IsAuthenticated() {
		a.printf("Available commands: whoami, theme [dark|light|toggle], groups, members <id>, activities, record <path> [note], analysis <id>, recs, logout, exit")
	} else {
		a.printf("Available commands: register, login, theme [dark|light|toggle], exit")
	}
}
