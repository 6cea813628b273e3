package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/repo"
	"github.com/Scribax/followers-shop/pkg/logging"
)

type ProfileService struct {
	Repo *repo.GormRepo
}

// UserInfo is the profile view handed to the UI: the stored handle plus the
// read-through identity fields from the session user.
type UserInfo struct {
	IGUsername          string    `json:"igUsername"`
	FormattedIGUsername string    `json:"formattedIgUsername"`
	ProfileComplete     bool      `json:"profileComplete"`
	FullName            string    `json:"fullName"`
	Email               string    `json:"email"`
	JoinDate            time.Time `json:"joinDate"`
	TotalOrders         int       `json:"totalOrders"`
	LastActivityAt      time.Time `json:"lastActivityAt"`
}

func formatIGUsername(name string) string {
	if name == "" {
		return ""
	}
	return "@" + name
}

func (s *ProfileService) FetchUserInfo(ctx context.Context, user *models.User) (*UserInfo, error) {
	if user == nil {
		return nil, apperr.ErrSessionExpired
	}

	profile, err := s.Repo.ProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	return &UserInfo{
		IGUsername:          profile.IGUsername,
		FormattedIGUsername: formatIGUsername(profile.IGUsername),
		ProfileComplete:     profile.ProfileComplete(),
		FullName:            user.Name,
		Email:               user.Email,
		JoinDate:            profile.JoinDate,
		TotalOrders:         profile.TotalOrders,
		LastActivityAt:      profile.LastActivityAt,
	}, nil
}

// SetIGUsername validates and stores the handle. On a validation failure
// nothing is written, so the prior value stays in place.
func (s *ProfileService) SetIGUsername(ctx context.Context, user *models.User, username string) error {
	l := logging.FromContext(ctx).With("svc", "profile.set_ig_username")

	if user == nil {
		return apperr.ErrSessionExpired
	}
	if username == "" {
		return fmt.Errorf("%w: username is required", apperr.ErrValidation)
	}
	if !validIGUsername(username) {
		return fmt.Errorf("%w: use only letters, digits, dots and underscores", apperr.ErrValidation)
	}

	if _, err := s.Repo.ProfileByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	if err := s.Repo.UpdateIGUsername(ctx, user.ID, username); err != nil {
		l.Error("set_ig_username_failed", "status", 500, "error", err)
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	l.Info("set_ig_username_successful")
	return nil
}

func (s *ProfileService) ClearIGUsername(ctx context.Context, user *models.User) error {
	if user == nil {
		return apperr.ErrSessionExpired
	}
	if _, err := s.Repo.ProfileByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	if err := s.Repo.UpdateIGUsername(ctx, user.ID, ""); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	return nil
}

type ProfilePatch struct {
	TotalOrders    *int
	LastActivityAt *time.Time
}

func (s *ProfileService) UpdateProfileData(ctx context.Context, user *models.User, patch ProfilePatch) (*models.Profile, error) {
	if user == nil {
		return nil, apperr.ErrSessionExpired
	}

	profile, err := s.Repo.ProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if patch.TotalOrders != nil {
		profile.TotalOrders = *patch.TotalOrders
	}
	if patch.LastActivityAt != nil {
		profile.LastActivityAt = *patch.LastActivityAt
	}

	if err := s.Repo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	return profile, nil
}

// ClearUserInfo removes the stored profile entirely. Called on logout.
func (s *ProfileService) ClearUserInfo(ctx context.Context, user *models.User) error {
	if user == nil {
		return nil
	}
	return s.Repo.DeleteProfile(ctx, user.ID)
}
