package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a display name, email and password and creates the
// account. Outcome messages come from the notifier.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	return a.authService.Register(ctx, email, string(password), name)
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	return a.authService.Login(ctx, email, string(password))
}

func (a *App) Logout(ctx context.Context) error {
	return a.authService.Logout(ctx)
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.authService.State().User
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}

	verified := "no"
	if u.EmailVerified {
		verified = "yes"
	}
	printlnFn(fmt.Sprintf("%s <%s>", u.Name, u.Email))
	printlnFn(fmt.Sprintf("  id:         %s", u.ID))
	printlnFn(fmt.Sprintf("  verified:   %s", verified))
	if !u.RegisteredAt.IsZero() {
		printlnFn(fmt.Sprintf("  registered: %s", u.RegisteredAt.Local().Format(time.DateOnly)))
	}
	return nil
}

// Status prints the session state, including the last error if any.
func (a *App) Status(ctx context.Context) error {
	st := a.authService.State()

	printlnFn(fmt.Sprintf("status: %s", st.Status))
	printlnFn(fmt.Sprintf("online: %t", st.IsOnline))
	if st.Error != nil {
		printlnFn(fmt.Sprintf("error:  %s", st.Error.String()))
	}
	return nil
}

// Check re-validates the session against the server. When the server cannot
// be reached the cached session stays in use and is shown as is.
func (a *App) Check(ctx context.Context) error {
	if err := a.authService.CheckAuth(ctx); err != nil {
		var ae *autherr.Error
		if errors.As(err, &ae) && ae.IsNetwork() {
			printlnFn("Server unreachable, keeping the cached session")
			_ = a.Status(ctx)
			return err
		}
		printlnFn("Session check failed:", err.Error())
		return err
	}
	return a.Status(ctx)
}
