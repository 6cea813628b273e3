package repo

import (
	"context"
	"time"

	"github.com/Scribax/followers-shop/internal/models"
)

// ProfileByUserID loads the profile row for userID, creating an empty one on
// first access. JoinDate is set once at creation.
func (r *GormRepo) ProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile := models.Profile{
		UserID:         userID,
		JoinDate:       time.Now().UTC(),
		LastActivityAt: time.Now().UTC(),
	}
	tx := r.DB.WithContext(ctx).Where("user_id = ?", userID).FirstOrCreate(&profile)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &profile, nil
}

func (r *GormRepo) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return r.DB.WithContext(ctx).Save(profile).Error
}

func (r *GormRepo) UpdateIGUsername(ctx context.Context, userID uint, username string) error {
	return r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"ig_username":      username,
			"last_activity_at": time.Now().UTC(),
		}).Error
}

func (r *GormRepo) DeleteProfile(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Profile{}).Error
}
