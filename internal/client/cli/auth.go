package cli

import (
	"context"
	"errors"
	"os"

	"github.com/homequote/homequote/internal/client/api"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getYesNo = GetYesNo

// Login prompts for credentials and authenticates against the API.
//
// On success the credential is persisted, the device is registered for push
// notifications, and the realtime channel comes up. Rejected credentials
// and network failures are reported to the user; the returned error carries
// the same cause for callers that want it.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	stay, err := getYesNo(a.reader, "Stay logged in?", os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.gateway.Login(ctx, email, string(password), stay)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	printlnFn("Welcome, " + sess.DisplayName() + "!")
	if sess.NeedsConsent() {
		printlnFn("You still need to accept the terms and the privacy policy: run 'consent'.")
	}

	a.push.Register(ctx)
	a.goOnline(ctx)
	return nil
}

// Register prompts for the registration form, creates the account, and logs
// it in. Field-level validation errors are shown per field.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	firstName, err := getSimpleText(a.reader, "First name", os.Stdout)
	if err != nil {
		return err
	}

	lastName, err := getSimpleText(a.reader, "Last name", os.Stdout)
	if err != nil {
		return err
	}

	phone, err := getSimpleText(a.reader, "Phone (optional, +1234567890)", os.Stdout)
	if err != nil {
		return err
	}

	stay, err := getYesNo(a.reader, "Stay logged in?", os.Stdout)
	if err != nil {
		return err
	}

	req := api.RegisterRequest{
		Email:     email,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}

	sess, err := a.gateway.Register(ctx, req, stay)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	printlnFn("Account created. Welcome, " + sess.DisplayName() + "!")
	printlnFn("Please accept the terms and the privacy policy: run 'consent'.")

	a.push.Register(ctx)
	a.goOnline(ctx)
	return nil
}

// Logout tears down the realtime connection first so no push event races
// the credential wipe, then erases local auth state.
func (a *App) Logout(ctx context.Context) error {
	a.goOffline()
	a.gateway.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

func (a *App) reportAuthError(err error) {
	var rejected *api.AuthRejectedError
	var invalid *api.ValidationError

	switch {
	case errors.As(err, &rejected):
		printlnFn(rejected.Detail)
	case errors.As(err, &invalid):
		printlnFn(invalid.Detail)
		for field, reason := range invalid.Fields {
			printlnFn("  " + field + ": " + reason)
		}
	case errors.Is(err, api.ErrNetwork):
		printlnFn("Server unreachable, please try again later.")
	default:
		printlnFn("Error:", err.Error())
	}
}
