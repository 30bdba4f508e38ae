package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/internal/users"
	"github.com/shopstack-labs/shopstack-backend/pkg/db"
	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/security"
)

const verificationCodeDigits = 6

// Register creates an unverified account and emails its verification code.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         enums.UserRoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if err := s.issueVerifyCode(ctx, user); err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

// VerifyEmail checks the emailed code and marks the account verified.
func (s *service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	if user.VerifyCode == nil || user.VerifyCodeExpiresAt == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "no verification code pending")
	}
	if s.now().UTC().After(*user.VerifyCodeExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification code expired")
	}
	if strings.TrimSpace(req.Code) != *user.VerifyCode {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid verification code")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark user verified")
	}
	return nil
}

// ResendCode issues a fresh verification code to an unverified account.
func (s *service) ResendCode(ctx context.Context, req ResendCodeRequest) error {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already verified")
	}
	return s.issueVerifyCode(ctx, user)
}

func (s *service) issueVerifyCode(ctx context.Context, user *models.User) error {
	code, err := security.NumericCode(verificationCodeDigits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	expiresAt := s.now().UTC().Add(s.verifyCfg.CodeTTL)
	if err := s.users.SetVerifyCode(ctx, user.ID, code, expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification code")
	}
	if err := s.mail.SendVerificationCode(ctx, user.Email, user.Name, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}
	return nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}
