package cli

import (
	"context"
	"time"

	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/common"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	defer common.WipeByteArray(password)

	session, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.printErr(err)
		return
	}
	a.printOK("Welcome back, %s", session.User.FullName())
}

func (a *App) Register(ctx context.Context) {
	reg := models.Registration{}

	var err error
	if reg.Name, err = GetSimpleText(a.reader, "First name", a.out); err != nil {
		a.printErr(err)
		return
	}
	if reg.Surname, err = GetSimpleText(a.reader, "Surname", a.out); err != nil {
		a.printErr(err)
		return
	}
	if reg.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		a.printErr(err)
		return
	}
	if reg.Gender, err = GetSimpleText(a.reader, "Gender (optional)", a.out); err != nil {
		a.printErr(err)
		return
	}
	if reg.BirthDate, err = GetSimpleText(a.reader, "Birth date (YYYY-MM-DD)", a.out); err != nil {
		a.printErr(err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	defer common.WipeByteArray(password)
	reg.Password = string(password)

	if err := a.auth.Register(ctx, reg); err != nil {
		a.printErr(err)
		return
	}
	a.printOK("Registered. Check your inbox to verify the account, then login.")
}

func (a *App) Logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		a.printErr(err)
		return
	}
	a.printOK("Logged out")
}

func (a *App) WhoAmI() {
	session := a.auth.Session()
	if !session.Authenticated || session.User == nil {
		a.printf("not logged in")
		return
	}

	a.printf("%s <%s> role=%s", session.User.FullName(), session.User.Email, session.User.Role)
	if !session.ExpiresAt.IsZero() {
		a.printf("token expires %s", session.ExpiresAt.Format(time.RFC3339))
		if session.ExpiresSoon(5 * time.Minute) {
			a.printf("token expires soon; the next call will refresh it if needed")
		}
	}
}
