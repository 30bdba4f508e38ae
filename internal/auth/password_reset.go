package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shopstack-labs/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/security"
)

const resetTokenBytes = 32

// ForgotPassword stores an opaque single-use reset token and emails a reset
// link. Unknown emails return success so the endpoint cannot be used to probe
// which addresses have accounts.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	token, err := security.OpaqueToken(resetTokenBytes)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	key := s.resetStore.ResetTokenKey(token)
	if err := s.resetStore.Set(ctx, key, user.ID.String(), s.verifyCfg.ResetTokenTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.clientURL, "/"), token)
	if err := s.mail.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset email")
	}
	return nil
}

// ResetPassword redeems a reset token and replaces the password hash. The
// token is deleted before the update so it can only be used once.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	key := s.resetStore.ResetTokenKey(strings.TrimSpace(req.Token))
	userIDRaw, err := s.resetStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset token")
	}
	if err := s.resetStore.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume reset token")
	}

	user, err := s.findByID(ctx, userIDRaw)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) findByID(ctx context.Context, raw string) (*models.User, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse reset token subject")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
