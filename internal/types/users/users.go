package users

import "time"

// User is an identity record. Username and email are unique across the
// collection; registration rejects duplicates of either.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Website      string    `json:"website,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sanitized returns a copy safe to hand to API clients, with the
// credential hash stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"required,max=60"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries every mutable profile field. The update
// is a full replace: omitted optional fields clear their values.
type UpdateProfileRequest struct {
	DisplayName  string `json:"display_name" validate:"required,max=60"`
	ProfileImage string `json:"profile_image" validate:"omitempty,uri"`
	Bio          string `json:"bio" validate:"max=300"`
	Website      string `json:"website" validate:"omitempty,uri"`
	Location     string `json:"location" validate:"max=100"`
}
