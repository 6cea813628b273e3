package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/internal/events"
	"github.com/Scribax/followers-shop/internal/mail"
	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/notify"
	"github.com/Scribax/followers-shop/internal/repo"
	"github.com/Scribax/followers-shop/internal/transport"
	pkg_hash "github.com/Scribax/followers-shop/pkg/hash"
	"github.com/Scribax/followers-shop/pkg/logging"
	"github.com/Scribax/followers-shop/pkg/tokens"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	Bus       *notify.Bus
	Mail      *mail.Client
	Events    *events.Producer
	JWTSecret []byte

	loading atomic.Bool
}

type LoginResult struct {
	Token     string
	User      *models.User
	ExpiresAt time.Time
}

func (s *AuthService) Loading() bool { return s.loading.Load() }

func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	if err := s.Events.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		err := fmt.Errorf("%w: email and password are required", apperr.ErrValidation)
		s.Bus.Error(apperr.Message(err))
		return nil, err
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			s.Bus.Error(apperr.Message(apperr.ErrInvalidCredentials))
			return nil, apperr.ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		s.Bus.Error(apperr.Message(apperr.ErrInvalidCredentials))
		return nil, apperr.ErrInvalidCredentials
	}

	res, err := s.openSession(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	s.publish(ctx, user.Email, map[string]any{"type": "user_logged_in", "email": user.Email})
	s.Bus.Success("You have signed in successfully.")
	l.Info("login_successful")
	return res, nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*LoginResult, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	l := logging.FromContext(ctx).With("svc", "auth.register", "email", req.Email)

	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		err := fmt.Errorf("%w: all required fields must be filled in", apperr.ErrValidation)
		s.Bus.Error(apperr.Message(err))
		return nil, err
	}
	if !validEmail(req.Email) {
		err := fmt.Errorf("%w: email format is not valid", apperr.ErrValidation)
		s.Bus.Error(apperr.Message(err))
		return nil, err
	}
	if err := checkPasswordStrength(req.Password); err != nil {
		s.Bus.Error(apperr.Message(err))
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		err := fmt.Errorf("%w: passwords do not match", apperr.ErrValidation)
		s.Bus.Error(apperr.Message(err))
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, apperr.ErrDuplicateEmail) {
			l.Warn("register_failed", "status", 409, "reason", "email already registered")
			s.Bus.Error(apperr.Message(err))
			return nil, err
		}
		l.Error("register_failed", "status", 500, "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	res, err := s.openSession(ctx, &user)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	s.publish(ctx, user.Email, map[string]any{"type": "user_registered", "email": user.Email})
	s.Bus.Success("Your account has been created. Welcome!")
	l.Info("register_successful", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	exp := time.Now().Add(sessionTTL)
	token, claims, err := tokens.NewSessionToken(strconv.FormatUint(uint64(user.ID), 10), user.Email, exp, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddSession(ctx, token, claims, user.ID); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user, ExpiresAt: exp}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	s.loading.Store(true)
	defer s.loading.Store(false)

	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if token != "" {
		if err := s.Repo.RevokeSession(ctx, token); err != nil {
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke session", "error", err)
			s.Bus.Error(apperr.Message(apperr.ErrServer))
			return fmt.Errorf("%w: %v", apperr.ErrServer, err)
		}
	}

	s.Bus.Success("You have signed out successfully.")
	l.Info("logout_successful")
	return nil
}

// CheckAuth restores a session from a bearer token: the signature and expiry
// must verify, the session row must be alive, and the subject must still map
// to a user. Any failure surfaces as an expired session.
func (s *AuthService) CheckAuth(ctx context.Context, token string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.check_auth")

	claims, err := tokens.SessionClaimsFromToken(token, s.JWTSecret)
	if err != nil || claims == nil {
		l.Warn("check_auth_failed", "status", 401, "reason", "invalid token")
		return nil, apperr.ErrSessionExpired
	}

	alive, err := s.Repo.SessionAlive(ctx, claims.ID)
	if err != nil {
		l.Error("check_auth_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	if !alive {
		l.Warn("check_auth_failed", "status", 401, "reason", "session revoked or expired")
		return nil, apperr.ErrSessionExpired
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperr.ErrSessionExpired
	}
	user, err := s.Repo.UserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Token is signed but the user row is gone. Force a logout.
			_ = s.Repo.RevokeSession(ctx, token)
			l.Warn("check_auth_failed", "status", 401, "reason", "no matching user")
			return nil, apperr.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	return user, nil
}

// RequestPasswordReset issues a reset token and mails it. An unknown email
// reports success without sending anything, so the endpoint does not reveal
// which addresses exist. Delivery failures are logged and notified but do not
// fail the operation.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	s.loading.Store(true)
	defer s.loading.Store(false)

	l := logging.FromContext(ctx).With("svc", "auth.request_password_reset", "email", email)

	if !validEmail(email) {
		err := fmt.Errorf("%w: email format is not valid", apperr.ErrValidation)
		s.Bus.Error(apperr.Message(err))
		return err
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Info("reset_requested_for_unknown_email")
			s.Bus.Success("We sent you an email with instructions to reset your password.")
			return nil
		}
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	resetToken, err := s.Repo.CreatePasswordReset(ctx, user.ID)
	if err != nil {
		l.Error("reset_request_failed", "status", 500, "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if err := s.Mail.SendPasswordResetEmail(ctx, user.Email, resetToken); err != nil {
		l.Warn("reset_email_failed", "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrEmailDelivery))
		return nil
	}

	s.Bus.Success("We sent you an email with instructions to reset your password.")
	l.Info("reset_email_sent")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	s.loading.Store(true)
	defer s.loading.Store(false)

	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	if err := checkPasswordStrength(password); err != nil {
		s.Bus.Error(apperr.Message(err))
		return err
	}
	if password != confirm {
		err := fmt.Errorf("%w: passwords do not match", apperr.ErrValidation)
		s.Bus.Error(apperr.Message(err))
		return err
	}

	userID, err := s.Repo.ConsumePasswordReset(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			l.Warn("reset_failed", "status", 400, "reason", "invalid or expired reset token")
			s.Bus.Error("The recovery link is invalid or has expired.")
			return fmt.Errorf("%w: invalid or expired reset token", apperr.ErrValidation)
		}
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	if err := s.Repo.UpdatePassword(ctx, userID, pwHash); err != nil {
		l.Error("reset_failed", "status", 500, "error", err)
		s.Bus.Error(apperr.Message(apperr.ErrServer))
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if user, lookupErr := s.Repo.UserByID(ctx, userID); lookupErr == nil {
		if mailErr := s.Mail.SendPasswordChangedEmail(ctx, user.Email); mailErr != nil {
			l.Warn("changed_email_failed", "error", mailErr)
		}
	}

	s.Bus.Success("Your password has been updated successfully.")
	l.Info("reset_successful", "user_id", userID)
	return nil
}
