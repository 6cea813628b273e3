package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/pkg/tokens"
)

// AddSession records an issued session token. Only the sha256 of the token
// hits the database.
func (r *GormRepo) AddSession(ctx context.Context, token string, claims *tokens.SessionClaims, userID uint) error {
	row := models.SessionToken{
		Token:     tokens.Sha256Hex(token),
		UserID:    userID,
		Email:     claims.Email,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

func (r *GormRepo) RevokeSession(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.SessionToken{}).
		Where("token = ?", tokens.Sha256Hex(token)).
		Update("revoked", true).Error
}

// SessionAlive reports whether the session identified by jti exists and is
// neither revoked nor past its expiry.
func (r *GormRepo) SessionAlive(ctx context.Context, jti string) (bool, error) {
	var row models.SessionToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if row.Revoked || row.ExpiresAt < time.Now().Unix() {
		return false, nil
	}
	return true, nil
}

// CreatePasswordReset issues a single-use reset token for userID and returns
// the plaintext value. The stored row holds the hash and a 1h expiry.
func (r *GormRepo) CreatePasswordReset(ctx context.Context, userID uint) (string, error) {
	plain := uuid.NewString()
	row := models.PasswordReset{
		Token:     tokens.Sha256Hex(plain),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return plain, nil
}

// ConsumePasswordReset validates token and marks it used inside one
// transaction. Unknown, expired, or already-used tokens all fail the same way.
func (r *GormRepo) ConsumePasswordReset(ctx context.Context, token string) (uint, error) {
	var userID uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.PasswordReset
		if err := tx.Where("token = ?", tokens.Sha256Hex(token)).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrValidation
			}
			return err
		}
		if row.Used || row.ExpiresAt < time.Now().Unix() {
			return apperr.ErrValidation
		}
		if err := tx.Model(&models.PasswordReset{}).
			Where("id = ?", row.ID).
			Update("used", true).Error; err != nil {
			return err
		}
		userID = row.UserID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}
