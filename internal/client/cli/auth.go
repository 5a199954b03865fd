package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/miguelherrera-611/vetclinic/internal/client/models"
	"github.com/miguelherrera-611/vetclinic/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Login prompts for an email (or username) and password and signs in.
// The password is wiped before returning; failures are reported by the
// notifier and returned unchanged.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	return a.authService.Login(ctx, identifier, string(password))
}

// Register prompts for the account details, asks for the password twice
// and creates the account. The user is signed in on success.
func (a *App) Register(ctx context.Context) error {
	var d models.RegistrationDraft
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &d.Username},
		{"Enter email", &d.Email},
		{"First name (optional)", &d.FirstName},
		{"Last name (optional)", &d.LastName},
		{"Phone (optional)", &d.Phone},
		{"Document ID (optional)", &d.DocumentID},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := a.readNewPassword("Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)
	d.Password = string(password)

	return a.authService.Register(ctx, d)
}

// readNewPassword asks for a password and its confirmation.
func (a *App) readNewPassword(prompt string) ([]byte, error) {
	password, err := getPassword(a.out, prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		shared.WipeByteArray(password)
		return nil, err
	}
	defer shared.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		shared.WipeByteArray(password)
		fmt.Fprintln(a.out, errPasswordMismatch.Error())
		return nil, errPasswordMismatch
	}
	return password, nil
}

// Logout drops the session. It never fails.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	return nil
}

// Passwd changes the password of the signed-in user.
func (a *App) Passwd(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(current)

	next, err := a.readNewPassword("New password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(next)

	return a.authService.ChangePassword(ctx, string(current), string(next))
}

// Forgot requests a password reset link for an email address.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	return a.authService.ForgotPassword(ctx, email)
}

// Reset sets a new password using the token from the reset link.
func (a *App) Reset(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	next, err := a.readNewPassword("New password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(next)

	return a.authService.ResetPassword(ctx, token, string(next))
}

// Refresh renews the credential when it is close to expiry.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.authService.RefreshIfExpiring(ctx); err != nil {
		return err
	}
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "session is current")
	} else {
		fmt.Fprintln(a.out, "not signed in")
	}
	return nil
}
