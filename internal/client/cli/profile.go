package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/miguelherrera-611/vetclinic/internal/client/authz"
	"github.com/miguelherrera-611/vetclinic/internal/client/models"
)

func (a *App) printProfile(p *models.UserProfile) {
	info := authz.Display(p)
	if info == nil {
		fmt.Fprintln(a.out, "not signed in")
		return
	}
	fmt.Fprintf(a.out, "id:          %s\n", info.ID)
	fmt.Fprintf(a.out, "username:    %s\n", info.Username)
	fmt.Fprintf(a.out, "email:       %s\n", info.Email)
	if info.FullName != "" {
		fmt.Fprintf(a.out, "name:        %s\n", info.FullName)
	}
	fmt.Fprintf(a.out, "role:        %s\n", info.Role)
	if len(info.Roles) > 0 {
		fmt.Fprintf(a.out, "roles:       %s\n", strings.Join(info.Roles, ", "))
	}
	if len(info.Permissions) > 0 {
		fmt.Fprintf(a.out, "permissions: %s\n", strings.Join(info.Permissions, ", "))
	}
	if access := accessOf(p); len(access) > 0 {
		fmt.Fprintf(a.out, "access:      %s\n", strings.Join(access, ", "))
	}
}

// accessOf names the clinic areas p is recognised for.
func accessOf(p *models.UserProfile) []string {
	var access []string
	if authz.IsAdmin(p) {
		access = append(access, "administration")
	}
	if authz.IsVeterinarian(p) {
		access = append(access, "clinical")
	}
	if authz.IsUser(p) {
		access = append(access, "client")
	}
	return access
}

// Whoami prints the cached profile.
func (a *App) Whoami(context.Context) error {
	a.printProfile(a.authService.State().Profile)
	return nil
}

// Profile reloads the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.authService.FetchProfile(ctx)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

// Edit prompts for profile fields; empty answers keep the current value.
func (a *App) Edit(ctx context.Context) error {
	var patch models.ProfilePatch
	fields := []struct {
		prompt string
		dst    **string
	}{
		{"Email", &patch.Email},
		{"Full name", &patch.FullName},
		{"First name", &patch.FirstName},
		{"Last name", &patch.LastName},
		{"Phone", &patch.Phone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt+" (empty keeps current)", a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}
	if patch.IsEmpty() {
		fmt.Fprintln(a.out, "nothing to change")
		return nil
	}

	p, err := a.authService.SaveProfile(ctx, patch)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

// Can reports whether the signed-in user holds a role or permission.
func (a *App) Can(_ context.Context, what string) error {
	p := a.authService.State().Profile
	ok := authz.HasRole(p, what) || authz.HasPermission(p, what)
	answer := "no"
	if ok {
		answer = "yes"
	}
	fmt.Fprintf(a.out, "%s: %s\n", what, answer)
	return nil
}

// Screens lists every screen with the guard's decision for the current user.
func (a *App) Screens(context.Context) error {
	st := a.authService.State()
	for _, s := range authz.Screens {
		d := authz.Guard(st.Loading, st.Profile, s.Roles...)
		fmt.Fprintf(a.out, "%-16s %s\n", s.Name, d)
	}
	return nil
}
