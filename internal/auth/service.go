package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	usersession "github.com/oakmart/storefront-backend/internal/session"
	pkgAuth "github.com/oakmart/storefront-backend/pkg/auth"
	"github.com/oakmart/storefront-backend/pkg/auth/session"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/db"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*TokenPairResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateSellerStatus(ctx context.Context, userID uuid.UUID, req UpdateSellerStatusRequest) (*ProfileDTO, error)
}

type profileRepository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateSellerStatus(ctx context.Context, id uuid.UUID, isSeller bool, sellerName *string) (*models.Profile, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	profiles profileRepository
	session  sessionManager
	holder   *usersession.Holder
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	ProfileRepo    profileRepository
	SessionManager sessionManager
	SessionHolder  *usersession.Holder
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.SessionHolder == nil {
		return nil, fmt.Errorf("session holder is required")
	}
	return &service{
		profiles: params.ProfileRepo,
		session:  params.SessionManager,
		holder:   params.SessionHolder,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
	}, nil
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	profile, err := s.profiles.Create(ctx, &models.Profile{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}

	return s.issueTokens(ctx, profile, time.Now().UTC())
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	profile, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.profiles.UpdateLastLogin(ctx, profile.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	profile.LastLoginAt = &now

	return s.issueTokens(ctx, profile, now)
}

func (s *service) SignOut(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "active session required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	s.holder.ClearAccess(accessID)
	return nil
}

func (s *service) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*TokenPairResponse, error) {
	if claims == nil || claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "active session required")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	profile, err := s.profiles.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   profile.ID,
		Email:    profile.Email,
		IsSeller: profile.IsSeller,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "active session required")
	}
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup profile")
	}
	dto := FromModel(profile)
	return &dto, nil
}

func (s *service) UpdateSellerStatus(ctx context.Context, userID uuid.UUID, req UpdateSellerStatusRequest) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "active session required")
	}
	if req.IsSeller && (req.SellerName == nil || strings.TrimSpace(*req.SellerName) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller name is required to become a seller")
	}

	var sellerName *string
	if req.SellerName != nil {
		trimmed := strings.TrimSpace(*req.SellerName)
		if trimmed != "" {
			sellerName = &trimmed
		}
	}

	profile, err := s.profiles.UpdateSellerStatus(ctx, userID, req.IsSeller, sellerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller status")
	}

	dto := FromModel(profile)
	return &dto, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	profile, err := s.profiles.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}

	valid, err := security.VerifyPassword(password, profile.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return profile, nil
}

func (s *service) issueTokens(ctx context.Context, profile *models.Profile, now time.Time) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:   profile.ID,
		Email:    profile.Email,
		IsSeller: profile.IsSeller,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	s.holder.Set(&usersession.Session{
		UserID:   profile.ID,
		Email:    profile.Email,
		IsSeller: profile.IsSeller,
		AccessID: accessID,
	})

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FromModel(profile),
	}, nil
}
