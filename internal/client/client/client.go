package client

import (
	"context"

	"github.com/miguelherrera-611/vetclinic/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, draft models.RegistrationDraft) (*models.AuthResponse, error)
	ValidateCredential(ctx context.Context) error
	RefreshCredential(ctx context.Context) (string, error)
	GetProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, req models.PasswordChange) error
	ForgotPassword(ctx context.Context, req models.PasswordRecovery) error
	ResetPassword(ctx context.Context, req models.PasswordReset) error
}

// Session is the slice of the session store the transport needs: the bearer
// credential to attach and a way to drop it when the server rejects it.
type Session interface {
	Credential() (string, bool)
	Clear(ctx context.Context) error
}
