package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Identifier string `json:"email" validate:"required"`
	Secret     string `json:"password" validate:"required"`
}

// RegistrationDraft is the body of POST /auth/register.
type RegistrationDraft struct {
	Username   string   `json:"username" validate:"required,min=4,max=20"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6"`
	FirstName  string   `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName   string   `json:"lastName,omitempty" validate:"omitempty,max=50"`
	Phone      string   `json:"telefono,omitempty" validate:"omitempty,numeric,min=7,max=15"`
	DocumentID string   `json:"cedula,omitempty" validate:"omitempty,numeric,min=6,max=12"`
	Roles      []string `json:"roles,omitempty"`
}

// AuthResponse is what login and registration return on success.
type AuthResponse struct {
	Credential string       `json:"token"`
	Profile    *UserProfile `json:"user"`
}

// PasswordChange is the body of POST /auth/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}

// PasswordReset is the body of POST /auth/reset-password.
type PasswordReset struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// PasswordRecovery is the body of POST /auth/forgot-password.
type PasswordRecovery struct {
	Email string `json:"email" validate:"required,email"`
}
