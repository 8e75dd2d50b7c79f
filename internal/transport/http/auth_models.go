package http

import (
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
)

// AuthUser is the user representation returned by auth endpoints.
type AuthUser struct {
	Email       string `json:"email" example:"traveler@example.com"`
	DisplayName string `json:"display_name,omitempty" example:"Asha Traveler"`
	PhotoURL    string `json:"photo_url,omitempty" example:"https://lh3.googleusercontent.com/a/photo.png"`
}

// AuthTokenResponse is returned by endpoints that issue session tokens.
type AuthTokenResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string   `json:"expires_at" example:"2026-04-11T09:30:00Z"`
	User      AuthUser `json:"user"`
}

type AuthUserResponse struct {
	User AuthUser `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// GoogleLoginRequest carries the Google ID token for login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// LogoutRequest optionally carries the Google access token so the grant can be revoked.
type LogoutRequest struct {
	GoogleToken string `json:"google_token,omitempty"`
}

func toAuthUser(u *domain.User) AuthUser {
	if u == nil {
		return AuthUser{}
	}
	return AuthUser{Email: u.Email, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
}

func toAuthTokenResponse(res *service.AuthResult) AuthTokenResponse {
	return AuthTokenResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toAuthUser(res.User),
	}
}
