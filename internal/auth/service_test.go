package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	usersession "github.com/oakmart/storefront-backend/internal/session"
	pkgAuth "github.com/oakmart/storefront-backend/pkg/auth"
	"github.com/oakmart/storefront-backend/pkg/auth/session"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

type stubProfileRepo struct {
	byEmail map[string]*models.Profile
	byID    map[uuid.UUID]*models.Profile

	createErr error
	created   *models.Profile

	lastLoginCalls int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		byEmail: map[string]*models.Profile{},
		byID:    map[uuid.UUID]*models.Profile{},
	}
}

func (s *stubProfileRepo) add(profile *models.Profile) {
	s.byEmail[profile.Email] = profile
	s.byID[profile.ID] = profile
}

func (s *stubProfileRepo) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = time.Now().UTC()
	s.created = profile
	s.add(profile)
	return profile, nil
}

func (s *stubProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := s.byID[id]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if profile, ok := s.byEmail[email]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginCalls++
	return nil
}

func (s *stubProfileRepo) UpdateSellerStatus(ctx context.Context, id uuid.UUID, isSeller bool, sellerName *string) (*models.Profile, error) {
	profile, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	profile.IsSeller = isSeller
	profile.SellerName = sellerName
	return profile, nil
}

type stubSessionManager struct {
	generateErr error
	rotateErr   error
	revokeErr   error

	generated []string
	revoked   []string
	rotatedID string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotatedID = oldAccessID
	newID := "rotated-" + oldAccessID
	return newID, "refresh-" + newID, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key",
		Issuer:                 "storefront-test",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 43200,
	}
}

// Small parameters keep the Argon2id work factor out of the test runtime.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

type authFixture struct {
	svc      Service
	profiles *stubProfileRepo
	sessions *stubSessionManager
	holder   *usersession.Holder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	profiles := newStubProfileRepo()
	sessions := &stubSessionManager{}
	holder := usersession.NewHolder()

	svc, err := NewService(ServiceParams{
		ProfileRepo:    profiles,
		SessionManager: sessions,
		SessionHolder:  holder,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &authFixture{svc: svc, profiles: profiles, sessions: sessions, holder: holder}
}

func (f *authFixture) seedUser(t *testing.T, email, password string) *models.Profile {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	profile := &models.Profile{ID: uuid.New(), Email: email, PasswordHash: hash, FullName: "Test Shopper"}
	f.profiles.add(profile)
	return profile
}

func TestSignUpIssuesTokensAndSetsSession(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.SignUp(context.Background(), SignUpRequest{
		Email:    "Shopper@Example.com",
		Password: "correct horse battery",
		FullName: "  Test Shopper  ",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens in response")
	}
	if f.profiles.created == nil || f.profiles.created.Email != "shopper@example.com" {
		t.Fatalf("expected lowercased email, got %+v", f.profiles.created)
	}
	if f.profiles.created.FullName != "Test Shopper" {
		t.Fatalf("expected trimmed full name, got %q", f.profiles.created.FullName)
	}

	current := f.holder.Current()
	if current.Anonymous() || current.Email != "shopper@example.com" {
		t.Fatalf("expected holder session for new user, got %+v", current)
	}
	if len(f.sessions.generated) != 1 || current.AccessID != f.sessions.generated[0] {
		t.Fatalf("expected holder access id to match generated session, got %+v", f.sessions.generated)
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.createErr = errors.New(`duplicate key value violates unique constraint "idx_profiles_email"`)

	_, err := f.svc.SignUp(context.Background(), SignUpRequest{
		Email:    "shopper@example.com",
		Password: "correct horse battery",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSignInVerifiesPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "shopper@example.com", "correct horse battery")

	resp, err := f.svc.SignIn(context.Background(), SignInRequest{
		Email:    "Shopper@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if f.profiles.lastLoginCalls != 1 {
		t.Fatalf("expected last login update, got %d calls", f.profiles.lastLoginCalls)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Email != "shopper@example.com" {
		t.Fatalf("unexpected claims email %q", claims.Email)
	}
}

func TestSignInWrongPasswordUnauthorized(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "shopper@example.com", "correct horse battery")

	_, err := f.svc.SignIn(context.Background(), SignInRequest{
		Email:    "shopper@example.com",
		Password: "wrong password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic credentials message, got %q", typed.Message())
	}
}

func TestSignInUnknownEmailUnauthorized(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.SignIn(context.Background(), SignInRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("lookup miss must not leak, got %q", typed.Message())
	}
}

func TestSignOutRevokesAndClearsHolder(t *testing.T) {
	f := newAuthFixture(t)
	f.holder.Set(&usersession.Session{UserID: uuid.New(), AccessID: "access-1"})

	if err := f.svc.SignOut(context.Background(), "access-1"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoked access-1, got %v", f.sessions.revoked)
	}
	if f.holder.Current() != nil {
		t.Fatal("expected holder cleared after sign out")
	}
}

func TestSignOutStaleSessionLeavesHolder(t *testing.T) {
	f := newAuthFixture(t)
	current := &usersession.Session{UserID: uuid.New(), AccessID: "access-2"}
	f.holder.Set(current)

	if err := f.svc.SignOut(context.Background(), "access-1"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoked access-1, got %v", f.sessions.revoked)
	}

	got := f.holder.Current()
	if got == nil || got.UserID != current.UserID {
		t.Fatalf("expected current session kept, got %+v", got)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newAuthFixture(t)
	profile := f.seedUser(t, "shopper@example.com", "correct horse battery")

	claims := &pkgAuth.AccessTokenClaims{UserID: profile.ID, Email: profile.Email}
	claims.ID = "access-1"

	resp, err := f.svc.Refresh(context.Background(), claims, "refresh-access-1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if f.sessions.rotatedID != "access-1" {
		t.Fatalf("expected rotation of access-1, got %q", f.sessions.rotatedID)
	}
	if resp.RefreshToken != "refresh-rotated-access-1" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}

	issued, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if issued.ID != "rotated-access-1" {
		t.Fatalf("expected new jti, got %q", issued.ID)
	}
}

func TestRefreshInvalidTokenUnauthorized(t *testing.T) {
	f := newAuthFixture(t)
	f.sessions.rotateErr = session.ErrInvalidRefreshToken

	claims := &pkgAuth.AccessTokenClaims{UserID: uuid.New()}
	claims.ID = "access-1"

	_, err := f.svc.Refresh(context.Background(), claims, "stale token")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUpdateSellerStatusRequiresName(t *testing.T) {
	f := newAuthFixture(t)
	profile := f.seedUser(t, "shopper@example.com", "correct horse battery")

	_, err := f.svc.UpdateSellerStatus(context.Background(), profile.ID, UpdateSellerStatusRequest{IsSeller: true})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	name := "Oakmart Outfitters"
	dto, err := f.svc.UpdateSellerStatus(context.Background(), profile.ID, UpdateSellerStatusRequest{IsSeller: true, SellerName: &name})
	if err != nil {
		t.Fatalf("update seller status: %v", err)
	}
	if !dto.IsSeller || dto.SellerName == nil || *dto.SellerName != name {
		t.Fatalf("expected seller flag and name, got %+v", dto)
	}
}

func TestProfileNotFound(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Profile(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
