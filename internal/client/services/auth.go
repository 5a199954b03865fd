// Package services contains application services for the VetClinic client.
// This file defines the authentication service: it owns the session state
// and drives it through restore, login, registration, logout and the
// profile and password flows.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/client/client"
	"github.com/miguelherrera-611/vetclinic/internal/client/metrics"
	"github.com/miguelherrera-611/vetclinic/internal/client/models"
	"github.com/miguelherrera-611/vetclinic/internal/client/store"
	"github.com/miguelherrera-611/vetclinic/internal/client/validate"
	"github.com/miguelherrera-611/vetclinic/internal/logging"
	"golang.org/x/sync/singleflight"
)

// User-facing notifications.
const (
	msgRegistered      = "account created"
	msgLoggedOut       = "signed out"
	msgSessionExpired  = "your session has expired, please sign in again"
	msgProfileUpdated  = "profile updated"
	msgPasswordChanged = "password changed"
	msgRecoverySent    = "if the address is registered, a reset link is on its way"
	msgPasswordReset   = "password reset, you can sign in now"
	msgSaveFailed      = "could not save the session"
)

var errSessionEnded = errors.New("session ended")

// AuthService defines the session lifecycle operations for the CLI.
//
// Contract:
//   - Restore: recover a persisted session once at start; never fails.
//   - Login/Register: authenticate remotely and persist the session.
//   - Logout: drop the session; never fails.
//   - UpdateProfile: merge a patch into the cached profile, locally only.
//   - ClearError: dismiss an Error state.
//   - Expire: react to the server rejecting the credential.
//   - RefreshIfExpiring: renew a credential about to expire.
//   - FetchProfile/SaveProfile: read or write the profile remotely.
//   - ChangePassword/ForgotPassword/ResetPassword: password flows.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	State() State
	Restore(ctx context.Context)
	Login(ctx context.Context, identifier, secret string) error
	Register(ctx context.Context, draft models.RegistrationDraft) error
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) error
	ClearError()
	Expire(ctx context.Context)
	RefreshIfExpiring(ctx context.Context) error
	FetchProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, next string) error
}

// SessionStore is the durable session the service reads and writes.
// *store.Store satisfies it.
type SessionStore interface {
	Credential() (string, bool)
	Profile() (*models.UserProfile, bool)
	Save(ctx context.Context, credential string, profile *models.UserProfile) error
	SaveCredential(ctx context.Context, credential string) error
	ReplaceProfile(ctx context.Context, profile *models.UserProfile) error
	MergeProfile(ctx context.Context, patch models.ProfilePatch) error
	Clear(ctx context.Context) error
	IsExpired() bool
	IsExpiringSoon(threshold time.Duration) bool
}

var _ SessionStore = (*store.Store)(nil)

type authService struct {
	client    client.Client
	store     SessionStore
	notify    Notifier
	log       logging.Logger
	metrics   *metrics.Metrics
	threshold time.Duration

	// opMu serialises lifecycle operations; mu guards state only, so Expire
	// can run from inside an operation's transport call.
	opMu  sync.Mutex
	mu    sync.RWMutex
	state State

	refresh singleflight.Group
}

type Option func(*authService)

func WithNotifier(n Notifier) Option {
	return func(a *authService) { a.notify = n }
}

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *authService) { a.metrics = m }
}

// WithExpiryThreshold sets how early RefreshIfExpiring renews a credential.
func WithExpiryThreshold(d time.Duration) Option {
	return func(a *authService) {
		if d > 0 {
			a.threshold = d
		}
	}
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store. The service starts in the Authenticating state.
func NewAuthService(c client.Client, s SessionStore, opts ...Option) AuthService {
	a := &authService{
		client:    c,
		store:     s,
		notify:    NopNotifier{},
		log:       logging.Nop{},
		threshold: store.DefaultExpiryThreshold,
		state:     InitialState(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// State returns a snapshot of the current session state.
func (a *authService) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	s.Profile = s.Profile.Clone()
	return s
}

func (a *authService) dispatch(act Action) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = Reduce(a.state, act)
	return a.state
}

// Restore resolves the persisted session. It makes no network call unless
// there is a locally usable credential and profile to validate.
func (a *authService) Restore(ctx context.Context) {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	defer a.dispatch(Settle{})

	if _, ok := a.store.Credential(); !ok {
		a.log.Debug(ctx, "no stored session")
		a.dispatch(LoggedOut{})
		a.metrics.RecordRestore(metrics.OutcomeNoop)
		return
	}

	profile, hasProfile := a.store.Profile()
	if !hasProfile || a.store.IsExpired() {
		a.log.Info(ctx, "stored session is unusable, discarding", "has_profile", hasProfile)
		a.discard(ctx)
		a.metrics.RecordRestore(metrics.OutcomeFailure)
		return
	}

	if err := a.client.ValidateCredential(ctx); err != nil {
		a.log.Warn(ctx, "stored credential rejected", "error", err)
		a.discard(ctx)
		a.metrics.RecordRestore(metrics.OutcomeFailure)
		return
	}

	a.dispatch(Succeeded{Profile: profile})
	a.metrics.RecordRestore(metrics.OutcomeSuccess)
	a.metrics.SetAuthenticated(true)
	a.log.Info(ctx, "session restored", "user", profile.Username)
}

// discard clears the store and ends up Unauthenticated. Store failures are
// logged; the in-memory state still moves on.
func (a *authService) discard(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "clearing session failed", "error", err)
	}
	a.dispatch(LoggedOut{})
	a.metrics.SetAuthenticated(false)
}

// Login validates the input locally, authenticates and stores the session.
// On failure the store is left as it was and the state becomes Error.
func (a *authService) Login(ctx context.Context, identifier, secret string) error {
	req := models.LoginRequest{Identifier: identifier, Secret: secret}
	return a.authenticate(ctx, "login", req, func(ctx context.Context) (*models.AuthResponse, error) {
		return a.client.Login(ctx, req)
	})
}

// Register is Login through the registration endpoint.
func (a *authService) Register(ctx context.Context, draft models.RegistrationDraft) error {
	return a.authenticate(ctx, "register", draft, func(ctx context.Context) (*models.AuthResponse, error) {
		return a.client.Register(ctx, draft)
	})
}

func (a *authService) authenticate(ctx context.Context, op string, body any, call func(context.Context) (*models.AuthResponse, error)) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.dispatch(Begin{})
	defer a.dispatch(Settle{})

	if fields := validate.Struct(body); fields != nil {
		return a.fail(ctx, op, client.NewValidationError(fields))
	}

	resp, err := call(ctx)
	if err != nil {
		return a.fail(ctx, op, client.AsError(err))
	}

	if err := a.store.Save(ctx, resp.Credential, resp.Profile); err != nil {
		return a.fail(ctx, op, &client.Error{Kind: client.KindServer, Message: msgSaveFailed, Err: err})
	}

	a.dispatch(Succeeded{Profile: resp.Profile})
	a.metrics.RecordAuth(op, metrics.OutcomeSuccess)
	a.metrics.SetAuthenticated(true)
	a.log.Info(ctx, op+" succeeded", "user", resp.Profile.Username)

	if op == "register" {
		a.notify.Success(msgRegistered)
	} else {
		a.notify.Success("welcome, " + resp.Profile.Username)
	}
	return nil
}

func (a *authService) fail(ctx context.Context, op string, e *client.Error) error {
	a.dispatch(Failed{Message: e.Message})
	a.metrics.RecordAuth(op, metrics.OutcomeFailure)
	a.log.Warn(ctx, op+" failed", "kind", e.Kind.String(), "status", e.Status, "error", e)
	a.notify.Error(e.Error())
	return e
}

// Logout drops the session. It never fails; store errors are logged.
func (a *authService) Logout(ctx context.Context) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.discard(ctx)
	a.metrics.RecordLogout()
	a.log.Info(ctx, "signed out")
	a.notify.Success(msgLoggedOut)
}

// UpdateProfile merges patch into the cached profile without calling the
// server. It is a no-op when nobody is signed in.
func (a *authService) UpdateProfile(ctx context.Context, patch models.ProfilePatch) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	return a.mergeLocal(ctx, patch)
}

func (a *authService) mergeLocal(ctx context.Context, patch models.ProfilePatch) error {
	if err := a.store.MergeProfile(ctx, patch); err != nil {
		a.log.Error(ctx, "saving profile failed", "error", err)
		return err
	}
	if p, ok := a.store.Profile(); ok {
		a.dispatch(ProfileMerged{Profile: p})
	}
	return nil
}

func (a *authService) replaceLocal(ctx context.Context, p *models.UserProfile) error {
	if _, ok := a.store.Profile(); !ok {
		return nil
	}
	if err := a.store.ReplaceProfile(ctx, p); err != nil {
		a.log.Error(ctx, "saving profile failed", "error", err)
		return err
	}
	a.dispatch(ProfileMerged{Profile: p})
	return nil
}

func (a *authService) ClearError() {
	a.dispatch(ClearError{})
}

// Expire is run after the transport has discarded a rejected credential.
// It only touches the state, never the operation lock.
func (a *authService) Expire(ctx context.Context) {
	a.mu.Lock()
	wasSignedIn := a.state.Status == StatusAuthenticated
	a.state = Reduce(a.state, LoggedOut{})
	a.mu.Unlock()

	a.metrics.SetAuthenticated(false)
	if !wasSignedIn {
		return
	}
	a.metrics.RecordLogout()
	a.log.Info(ctx, "session expired")
	a.notify.Error(msgSessionExpired)
}

// RefreshIfExpiring renews the credential when it is about to expire.
// Concurrent callers share one refresh request. A credential that is already
// expired, or whose refresh fails, ends the session.
func (a *authService) RefreshIfExpiring(ctx context.Context) error {
	if !a.State().IsAuthenticated() {
		return nil
	}

	if _, ok := a.store.Credential(); !ok || a.store.IsExpired() {
		a.expireLocal(ctx)
		a.metrics.RecordRefresh(metrics.OutcomeFailure)
		return nil
	}
	if !a.store.IsExpiringSoon(a.threshold) {
		return nil
	}

	_, err, shared := a.refresh.Do("refresh", func() (any, error) {
		prev, _ := a.store.Credential()
		tok, err := a.client.RefreshCredential(ctx)
		if err != nil {
			return nil, err
		}
		return tok, a.adoptCredential(ctx, prev, tok)
	})
	if errors.Is(err, errSessionEnded) {
		a.log.Debug(ctx, "session ended during refresh, dropping new credential")
		return nil
	}
	if err != nil {
		a.log.Warn(ctx, "credential refresh failed", "error", err)
		a.metrics.RecordRefresh(metrics.OutcomeFailure)
		a.expireLocal(ctx)
		return client.AsError(err)
	}
	if !shared {
		a.metrics.RecordRefresh(metrics.OutcomeSuccess)
	}
	a.log.Debug(ctx, "credential refreshed", "shared", shared)
	return nil
}

// adoptCredential stores tok only if the session that asked for it is still
// the current one. The refresh request runs outside the operation lock, so a
// logout or a new login may have happened meanwhile.
func (a *authService) adoptCredential(ctx context.Context, prev, tok string) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	cur, ok := a.store.Credential()
	if !ok || cur != prev || !a.State().IsAuthenticated() {
		return errSessionEnded
	}
	return a.store.SaveCredential(ctx, tok)
}

func (a *authService) expireLocal(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "clearing session failed", "error", err)
	}
	a.Expire(ctx)
}

// FetchProfile reloads the profile from the server and caches it.
func (a *authService) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	p, err := a.client.GetProfile(ctx)
	if err != nil {
		return nil, a.report(ctx, "fetch profile", err)
	}
	if err := a.store.ReplaceProfile(ctx, p); err != nil {
		a.log.Error(ctx, "saving profile failed", "error", err)
	}
	a.dispatch(ProfileMerged{Profile: p})
	return p.Clone(), nil
}

// SaveProfile sends patch to the server and caches the profile the server
// returns. When the server answers without a profile the patch is merged
// locally instead.
func (a *authService) SaveProfile(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if patch.IsEmpty() {
		p, _ := a.store.Profile()
		return p, nil
	}
	if fields := validate.Struct(patch); fields != nil {
		return nil, a.report(ctx, "save profile", client.NewValidationError(fields))
	}
	updated, err := a.client.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, a.report(ctx, "save profile", err)
	}
	if updated.IsZero() {
		err = a.mergeLocal(ctx, patch)
	} else {
		err = a.replaceLocal(ctx, updated)
	}
	if err != nil {
		return nil, a.report(ctx, "save profile", err)
	}
	a.notify.Success(msgProfileUpdated)
	p, _ := a.store.Profile()
	return p, nil
}

func (a *authService) ChangePassword(ctx context.Context, current, next string) error {
	return a.passwordFlow(ctx, "change password", models.PasswordChange{CurrentPassword: current, NewPassword: next},
		msgPasswordChanged, func(ctx context.Context, body any) error {
			return a.client.ChangePassword(ctx, body.(models.PasswordChange))
		})
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	return a.passwordFlow(ctx, "forgot password", models.PasswordRecovery{Email: email},
		msgRecoverySent, func(ctx context.Context, body any) error {
			return a.client.ForgotPassword(ctx, body.(models.PasswordRecovery))
		})
}

func (a *authService) ResetPassword(ctx context.Context, token, next string) error {
	return a.passwordFlow(ctx, "reset password", models.PasswordReset{Token: token, NewPassword: next},
		msgPasswordReset, func(ctx context.Context, body any) error {
			return a.client.ResetPassword(ctx, body.(models.PasswordReset))
		})
}

func (a *authService) passwordFlow(ctx context.Context, op string, body any, okMsg string, call func(context.Context, any) error) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if fields := validate.Struct(body); fields != nil {
		return a.report(ctx, op, client.NewValidationError(fields))
	}
	if err := call(ctx, body); err != nil {
		return a.report(ctx, op, err)
	}
	a.log.Info(ctx, op+" succeeded")
	a.notify.Success(okMsg)
	return nil
}

// report announces a failure of an operation that does not move the
// session into the Error state.
func (a *authService) report(ctx context.Context, op string, err error) error {
	e := client.AsError(err)
	a.log.Warn(ctx, op+" failed", "kind", e.Kind.String(), "status", e.Status, "error", e)
	a.notify.Error(e.Error())
	return e
}
