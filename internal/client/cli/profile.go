package cli

import (
	"context"
	"os"

	"github.com/homequote/homequote/internal/client/api"
)

// Whoami prints the active session.
func (a *App) Whoami(ctx context.Context) error {
	sess := a.store.Current()
	if sess == nil {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn(sess.DisplayName() + " <" + sess.Email + "> role=" + string(sess.Role))
	if sess.NeedsConsent() {
		printlnFn("Consent pending: run 'consent'.")
	}
	return nil
}

// Consent records acceptance of the terms and the privacy policy.
func (a *App) Consent(ctx context.Context) error {
	sess := a.store.Current()
	if sess == nil {
		printlnFn("Not logged in.")
		return nil
	}
	if !sess.NeedsConsent() {
		printlnFn("Terms and privacy policy already accepted.")
		return nil
	}

	ok, err := getYesNo(a.reader, "Accept the terms of service and the privacy policy?", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Consent not given.")
		return nil
	}

	if _, err := a.gateway.AcceptConsent(ctx); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Thank you, consent recorded.")
	return nil
}

// Profile prompts for profile changes. Empty answers leave the field as is.
func (a *App) Profile(ctx context.Context) error {
	sess := a.store.Current()
	if sess == nil {
		printlnFn("Not logged in.")
		return nil
	}

	firstName, err := getSimpleText(a.reader, "First name ["+sess.FirstName+"]", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name ["+sess.LastName+"]", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone ["+sess.Phone+"]", os.Stdout)
	if err != nil {
		return err
	}

	req := api.ProfileUpdate{}
	if firstName != "" {
		req.FirstName = &firstName
	}
	if lastName != "" {
		req.LastName = &lastName
	}
	if phone != "" {
		req.Phone = &phone
	}
	if req.FirstName == nil && req.LastName == nil && req.Phone == nil {
		printlnFn("Nothing to change.")
		return nil
	}

	updated, err := a.gateway.UpdateProfile(ctx, req)
	if err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Profile updated: " + updated.DisplayName())
	return nil
}
