package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/client/client"
	"github.com/krsnavtr-code/Pass-Manager/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const msgInvalidMaster = "Invalid master password"

func (a *App) readSecret(prompt string) (string, error) {
	b, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}

// Register asks for the account details, creates the account and logs in
// with the returned token.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}
	confirmPassword, err := a.readSecret("Confirm password")
	if err != nil {
		return err
	}
	master, err := a.readSecret("Master password")
	if err != nil {
		return err
	}

	res, err := a.api.Register(ctx, client.RegisterInput{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirmPassword,
		MasterPassword:  master,
	})
	if err != nil {
		return a.report(err)
	}

	a.println("Registered and logged in as", res.User.Email)
	a.startSessionWatcher(ctx, res.User.Name)
	return nil
}

// Login authenticates and starts watching the new session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.println("Server unavailable, try again later.")
			return err
		}
		a.println("Login failed:", err)
		return err
	}

	a.println("Welcome,", res.User.Name)
	a.startSessionWatcher(ctx, res.User.Name)
	return nil
}

// Logout forgets the token. The server session is left to expire on its own.
func (a *App) Logout(ctx context.Context) error {
	a.stopSessionWatcher()
	a.forceLogout()
	a.println("Logged out.")
	return nil
}

// Verify checks the master password without touching any entry.
func (a *App) Verify(ctx context.Context) error {
	master, err := a.readSecret("Master password")
	if err != nil {
		return err
	}

	if err := a.api.VerifyMaster(ctx, master); err != nil {
		return a.reportMaster(err)
	}
	a.println("Master password verified.")
	return nil
}

// reportMaster is report for calls that answer 401 to a wrong master
// password; that answer does not end the login.
func (a *App) reportMaster(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message == msgInvalidMaster {
		a.println("Error:", apiErr.Message)
		return err
	}
	return a.report(err)
}

func (a *App) SessionStatus(ctx context.Context) error {
	s, err := a.api.Session(ctx)
	if err != nil {
		return a.report(err)
	}

	a.printf("Session %s\n  logged in: %s\n  expires:   %s\n  remaining: %s\n",
		s.ID,
		s.LoginTime.Local().Format(time.DateTime),
		s.ExpiryTime.Local().Format(time.DateTime),
		formatRemaining(s.TimeRemaining),
	)
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.api.Profile(ctx)
	if err != nil {
		return a.report(err)
	}

	var b strings.Builder
	b.WriteString("Name:    " + p.Name + "\n")
	b.WriteString("Email:   " + p.Email + "\n")
	b.WriteString("Created: " + p.CreatedAt.Local().Format(time.DateTime) + "\n")
	a.printf("%s", b.String())
	return nil
}
