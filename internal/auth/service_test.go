package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/users"
	pkgAuth "github.com/shopstack-labs/shopstack-backend/pkg/auth"
	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "shopstack",
	ExpirationMinutes: 30,
}

func TestServiceLoginVerifiedUser(t *testing.T) {
	password := "correct-horse-battery"
	user := verifiedUser(t, "owner@example.com", password)

	svc, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("expected user role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsUnverifiedUser(t *testing.T) {
	password := "correct-horse-battery"
	user := verifiedUser(t, "pending@example.com", password)
	user.IsVerified = false

	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := verifiedUser(t, "owner@example.com", "right-password")

	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRegisterCreatesUserAndSendsCode(t *testing.T) {
	svc, env := buildTestService(t, nil)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "New Owner",
		Email:    "New.Owner@Example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "new.owner@example.com" {
		t.Fatalf("expected lowercased email, got %s", dto.Email)
	}
	if dto.IsVerified {
		t.Fatalf("expected new account to be unverified")
	}
	if env.mailer.lastCode == "" {
		t.Fatalf("expected verification code to be emailed")
	}
	if env.repo.user == nil || env.repo.user.VerifyCode == nil {
		t.Fatalf("expected verification code to be stored")
	}
}

func TestServiceRegisterConflictsOnExistingEmail(t *testing.T) {
	user := verifiedUser(t, "taken@example.com", "password-one")
	svc, _ := buildTestService(t, user)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Someone Else",
		Email:    "taken@example.com",
		Password: "password-two-long",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceVerifyEmail(t *testing.T) {
	user := verifiedUser(t, "pending@example.com", "some-password")
	user.IsVerified = false
	code := "123456"
	expires := time.Now().UTC().Add(10 * time.Minute)
	user.VerifyCode = &code
	user.VerifyCodeExpiresAt = &expires

	svc, env := buildTestService(t, user)

	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{
		Email: user.Email,
		Code:  "999999",
	}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for wrong code, got %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{
		Email: user.Email,
		Code:  code,
	}); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if !env.repo.user.IsVerified {
		t.Fatalf("expected user to be marked verified")
	}
}

func TestServiceVerifyEmailExpiredCode(t *testing.T) {
	user := verifiedUser(t, "pending@example.com", "some-password")
	user.IsVerified = false
	code := "123456"
	expires := time.Now().UTC().Add(-time.Minute)
	user.VerifyCode = &code
	user.VerifyCodeExpiresAt = &expires

	svc, _ := buildTestService(t, user)

	err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{
		Email: user.Email,
		Code:  code,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for expired code, got %v", err)
	}
}

func TestServiceResendCodeRejectsVerified(t *testing.T) {
	user := verifiedUser(t, "done@example.com", "some-password")
	svc, _ := buildTestService(t, user)

	err := svc.ResendCode(context.Background(), ResendCodeRequest{Email: user.Email})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceForgotPasswordHidesUnknownEmail(t *testing.T) {
	svc, env := buildTestService(t, nil)

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{
		Email: "nobody@example.com",
	}); err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
	if len(env.store.values) != 0 {
		t.Fatalf("expected no reset token stored for unknown email")
	}
}

func TestServiceResetPasswordFlow(t *testing.T) {
	user := verifiedUser(t, "owner@example.com", "old-password-long")
	svc, env := buildTestService(t, user)

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{
		Email: user.Email,
	}); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if env.mailer.lastResetURL == "" {
		t.Fatalf("expected reset link to be emailed")
	}
	if len(env.store.values) != 1 {
		t.Fatalf("expected one reset token stored, got %d", len(env.store.values))
	}

	var token string
	for key := range env.store.values {
		token = key[len("reset:"):]
	}

	oldHash := user.PasswordHash
	if err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:    token,
		Password: "brand-new-password",
	}); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if env.repo.user.PasswordHash == oldHash {
		t.Fatalf("expected password hash to change")
	}

	// Token is single use.
	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:    token,
		Password: "another-new-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error on token reuse, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	user := verifiedUser(t, "owner@example.com", "some-password")
	svc, env := buildTestService(t, user)

	claims := &pkgAuth.AccessTokenClaims{UserID: user.ID, Role: user.Role}
	claims.ID = "old-access-id"

	resp, err := svc.Refresh(context.Background(), claims, RefreshRequest{RefreshToken: "refresh-token"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected new token pair")
	}
	if env.session.rotatedFrom != "old-access-id" {
		t.Fatalf("expected rotation from old access id, got %q", env.session.rotatedFrom)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	user := verifiedUser(t, "owner@example.com", "some-password")
	svc, env := buildTestService(t, user)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if env.session.revoked != "access-id" {
		t.Fatalf("expected session revoked, got %q", env.session.revoked)
	}
}

type testEnv struct {
	repo    *stubUserRepo
	session *stubSessionManager
	store   *stubResetStore
	mailer  *stubMailer
}

func buildTestService(t *testing.T, user *models.User) (Service, *testEnv) {
	t.Helper()
	env := &testEnv{
		repo:    &stubUserRepo{user: user},
		session: &stubSessionManager{refreshToken: "refresh-token"},
		store:   &stubResetStore{values: map[string]string{}},
		mailer:  &stubMailer{},
	}
	svc, err := NewService(ServiceParams{
		UserRepo:           env.repo,
		SessionManager:     env.session,
		ResetTokenStore:    env.store,
		Mailer:             env.mailer,
		JWTConfig:          testJWTConfig,
		PasswordConfig:     config.PasswordConfig{},
		VerificationConfig: config.VerificationConfig{CodeTTL: 15 * time.Minute, ResetTokenTTL: 15 * time.Minute},
		ClientURL:          "http://localhost:3000",
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, env
}

func verifiedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Name:         "Test Owner",
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
		IsVerified:   true,
	}
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.user = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) SetVerifyCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.VerifyCode = &code
		s.user.VerifyCodeExpiresAt = &expiresAt
	}
	return nil
}

func (s *stubUserRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	if s.user != nil && s.user.ID == id {
		s.user.IsVerified = true
		s.user.VerifyCode = nil
		s.user.VerifyCodeExpiresAt = nil
	}
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	if s.user != nil && s.user.ID == id {
		s.user.PasswordHash = hash
	}
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotatedFrom  string
	revoked      string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

type stubResetStore struct {
	values map[string]string
}

func (s *stubResetStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubResetStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (s *stubResetStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubResetStore) ResetTokenKey(token string) string {
	return "reset:" + token
}

type stubMailer struct {
	lastCode     string
	lastResetURL string
}

func (m *stubMailer) SendVerificationCode(ctx context.Context, toEmail, toName, code string) error {
	m.lastCode = code
	return nil
}

func (m *stubMailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetURL string) error {
	m.lastResetURL = resetURL
	return nil
}
