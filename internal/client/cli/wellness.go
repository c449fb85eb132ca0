package cli

import (
	"context"
	"strconv"
	"strings"
	"time"
)

func (a *App) Groups(ctx context.Context) {
	groups, err := a.wellness.Groups(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	if len(groups) == 0 {
		a.printf("no groups yet")
		return
	}
	for _, g := range groups {
		a.printf("%4d  %-30s %d members", g.ID, g.Name, g.MemberCount)
	}
}

func (a *App) GroupMembers(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("usage: members <group-id>")
		return
	}
	groupID, err := strconv.Atoi(args[0])
	if err != nil {
		a.printf("usage: members <group-id>")
		return
	}

	members, err := a.wellness.GroupMembers(ctx, groupID)
	if err != nil {
		a.printErr(err)
		return
	}
	for _, m := range members {
		a.printf("%4d  %-30s %s", m.ID, m.Name, m.Role)
	}
}

func (a *App) Activities(ctx context.Context) {
	activities, err := a.wellness.Activities(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	for _, act := range activities {
		when := ""
		if !act.StartsAt.IsZero() {
			when = act.StartsAt.Format(time.RFC822)
		}
		a.printf("%4d  %-30s %s", act.ID, act.Title, when)
	}
}

// Record uploads a voice recording for emotional analysis. Everything
// after the path is taken as a free-form mood note.
func (a *App) Record(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.printf("usage: record <path> [note]")
		return
	}
	path := args[0]
	note := strings.Join(args[1:], " ")

	analysis, err := a.wellness.SubmitRecording(ctx, path, note)
	if err != nil {
		a.printErr(err)
		return
	}
	a.printOK("recording submitted, analysis id %s (status %s)", analysis.ID, analysis.Status)
}

func (a *App) Analysis(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("usage: analysis <id>")
		return
	}

	analysis, err := a.wellness.Analysis(ctx, args[0])
	if err != nil {
		a.printErr(err)
		return
	}

	a.printf("analysis %s: %s", analysis.ID, analysis.Status)
	if analysis.Status == "done" {
		a.printf("emotion: %s (score %.2f)", analysis.Emotion, analysis.Score)
	}
}

func (a *App) Recommendations(ctx context.Context) {
	recs, err := a.wellness.Recommendations(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	if len(recs) == 0 {
		a.printf("no recommendations yet; submit a recording first")
		return
	}
	for _, r := range recs {
		a.printf("%4d  %s", r.ID, r.Title)
		if r.Reason != "" {
			a.printf("      because: %s", r.Reason)
		}
	}
}
