package auth

import "time"

// User is the directory record. PasswordHash never leaves this package.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        *string    `json:"phone,omitempty"`
	Language     string     `json:"language"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AuthenticatedIdentity is the read-only projection of a user attached to a
// request after the auth gate verifies its bearer token. It lives for the
// duration of that request only.
type AuthenticatedIdentity struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Language  string `json:"language"`
}

// UserProfile is the public projection returned by the account endpoints.
// Phone and CreatedAt are omitted by endpoints that do not expose them.
type UserProfile struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     *string    `json:"phone,omitempty"`
	Language  string     `json:"language"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// RegisterRequest represents the register request body.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Language  string `json:"language,omitempty"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents the profile update request body.
type UpdateProfileRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Language  string  `json:"language"`
}

// ChangePasswordRequest represents the change password request body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthPayload is the data envelope returned by register and login.
type AuthPayload struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

func (u *User) publicProfile(withPhone, withCreatedAt bool) UserProfile {
	p := UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Language:  u.Language,
	}
	if withPhone {
		p.Phone = u.Phone
	}
	if withCreatedAt {
		created := u.CreatedAt
		p.CreatedAt = &created
	}
	return p
}

func (u *User) identity() *AuthenticatedIdentity {
	return &AuthenticatedIdentity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Language:  u.Language,
	}
}
