package authz

import "github.com/miguelherrera-611/vetclinic/internal/client/models"

// Decision is the outcome of guarding a screen.
type Decision int

const (
	// DecisionLoading: the session is still being resolved; show a spinner.
	DecisionLoading Decision = iota
	// DecisionLogin: nobody is signed in; send the user to the login screen.
	DecisionLogin
	// DecisionDenied: signed in but lacking every required role.
	DecisionDenied
	// DecisionAllow: show the screen.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionLogin:
		return "login"
	case DecisionDenied:
		return "denied"
	default:
		return "allow"
	}
}

// Guard decides whether a screen requiring any of roles may be shown.
// p is the signed-in profile, nil when signed out. No roles means any
// signed-in user may enter.
func Guard(loading bool, p *models.UserProfile, roles ...string) Decision {
	switch {
	case loading:
		return DecisionLoading
	case p == nil:
		return DecisionLogin
	case len(roles) > 0 && !HasAnyRole(p, roles...):
		return DecisionDenied
	default:
		return DecisionAllow
	}
}

// Screen is a navigable part of the clinic UI and the roles it requires.
type Screen struct {
	Name  string
	Roles []string
}

// Screens lists the clinic's screens in menu order.
var Screens = []Screen{
	{Name: "dashboard"},
	{Name: "appointments"},
	{Name: "pets"},
	{Name: "veterinarians", Roles: []string{"admin"}},
	{Name: "availability", Roles: []string{"veterinario", "admin"}},
	{Name: "medical-records", Roles: []string{"veterinario", "admin"}},
	{Name: "store"},
	{Name: "cart"},
}
