package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password,omitempty"` // stored hashed, blanked in responses
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile carries the farmer-facing account details shown on the profile page.
type Profile struct {
	ID                string    `json:"id"` // same as the user id
	FirstName         string    `json:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty"`
	Location          string    `json:"location,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	FarmSize          string    `json:"farm_size,omitempty"`
	FarmingExperience string    `json:"farming_experience,omitempty"`
	PrimaryCrops      string    `json:"primary_crops,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
}

type UpdateProfileRequest struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Location          *string `json:"location"`
	Phone             *string `json:"phone"`
	FarmSize          *string `json:"farm_size"`
	FarmingExperience *string `json:"farming_experience"`
	PrimaryCrops      *string `json:"primary_crops"`
	Bio               *string `json:"bio"`
	AvatarURL         *string `json:"avatar_url" validate:"omitempty,url"`
}
