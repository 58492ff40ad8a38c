package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
)

// SignUpRequest is the payload for account creation.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=120"`
}

// SignInRequest is the payload for password login.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token presented for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateSellerStatusRequest flips the seller flag on the profile.
type UpdateSellerStatusRequest struct {
	IsSeller   bool    `json:"is_seller"`
	SellerName *string `json:"seller_name" validate:"omitempty,max=120"`
}

// ProfileDTO is the public projection of a profile row.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	IsSeller    bool       `json:"is_seller"`
	SellerName  *string    `json:"seller_name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse bundles the issued tokens with the user's profile.
type AuthResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         ProfileDTO `json:"user"`
}

// TokenPairResponse is returned from refresh rotation.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FromModel projects a profile row into its DTO.
func FromModel(profile *models.Profile) ProfileDTO {
	if profile == nil {
		return ProfileDTO{}
	}
	return ProfileDTO{
		ID:          profile.ID,
		Email:       profile.Email,
		FullName:    profile.FullName,
		IsSeller:    profile.IsSeller,
		SellerName:  profile.SellerName,
		LastLoginAt: profile.LastLoginAt,
		CreatedAt:   profile.CreatedAt,
	}
}
