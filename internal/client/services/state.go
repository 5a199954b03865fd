package services

import "github.com/miguelherrera-611/vetclinic/internal/client/models"

type Status int

const (
	StatusAuthenticating Status = iota
	StatusUnauthenticated
	StatusAuthenticated
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the observable session state. Profile is set only while
// Authenticated and Message only while in Error.
type State struct {
	Status  Status
	Profile *models.UserProfile
	Message string
	Loading bool

	// resume is what ClearError returns to.
	resume *State
}

// InitialState is the state before Restore has run.
func InitialState() State {
	return State{Status: StatusAuthenticating, Loading: true}
}

// IsAuthenticated reports whether a user is signed in.
func (s State) IsAuthenticated() bool { return s.Status == StatusAuthenticated }

// Action is one of the transitions accepted by Reduce.
type Action interface{ action() }

type (
	// Begin starts a login or registration.
	Begin struct{}
	// Succeeded ends an operation with a signed-in user.
	Succeeded struct{ Profile *models.UserProfile }
	// Failed ends a login or registration with a user-facing message.
	Failed struct{ Message string }
	// Settle drops the Loading flag whatever the outcome. An operation
	// left without an outcome falls back to the state it started from.
	Settle struct{}
	// LoggedOut ends the session.
	LoggedOut struct{}
	// ProfileMerged replaces the profile of a signed-in user.
	ProfileMerged struct{ Profile *models.UserProfile }
	// ClearError dismisses an Error.
	ClearError struct{}
)

func (Begin) action()         {}
func (Succeeded) action()     {}
func (Failed) action()        {}
func (Settle) action()        {}
func (LoggedOut) action()     {}
func (ProfileMerged) action() {}
func (ClearError) action()    {}

// Reduce computes the state that follows s after a. It does not mutate s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Begin:
		prev := s
		prev.Loading = false
		switch prev.Status {
		case StatusError:
			if prev.resume != nil {
				prev = *prev.resume
			} else {
				prev = State{Status: StatusUnauthenticated}
			}
		case StatusAuthenticating:
			prev = State{Status: StatusUnauthenticated}
		}
		prev.resume = nil
		return State{Status: StatusAuthenticating, Loading: true, resume: &prev}

	case Succeeded:
		return State{Status: StatusAuthenticated, Profile: a.Profile.Clone(), Loading: s.Loading}

	case Failed:
		resume := s.resume
		if resume == nil && s.Status != StatusError {
			prev := s
			prev.Loading = false
			resume = &prev
		}
		return State{Status: StatusError, Message: a.Message, resume: resume}

	case Settle:
		if s.Status == StatusAuthenticating {
			// the operation never reached an outcome
			if s.resume == nil {
				return State{Status: StatusUnauthenticated}
			}
			r := *s.resume
			r.Loading = false
			return r
		}
		s.Loading = false
		return s

	case LoggedOut:
		return State{Status: StatusUnauthenticated}

	case ProfileMerged:
		if s.Status != StatusAuthenticated || a.Profile == nil {
			return s
		}
		s.Profile = a.Profile.Clone()
		return s

	case ClearError:
		if s.Status != StatusError {
			return s
		}
		if s.resume == nil {
			return State{Status: StatusUnauthenticated}
		}
		r := *s.resume
		r.Loading = false
		return r
	}
	return s
}
