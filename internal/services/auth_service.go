package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aiscribe/aiscribe-backend/internal/config"
	"github.com/aiscribe/aiscribe-backend/internal/mail"
	"github.com/aiscribe/aiscribe-backend/internal/models"
	"github.com/aiscribe/aiscribe-backend/internal/password"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	store  storage.Storage
	sender mail.Sender
	cfg    *config.Config
}

func NewAuthService(store storage.Storage, sender mail.Sender, cfg *config.Config) *AuthService {
	return &AuthService{store: store, sender: sender, cfg: cfg}
}

// Register creates an account. Username uniqueness is enforced here, not in
// the store, so the check and the insert share one code path for every
// entry point.
func (s *AuthService) Register(username, plaintext string) (*models.User, error) {
	if _, err := s.store.GetUserByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.CreateUser(username, hash)
}

func (s *AuthService) Login(username, plaintext string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ForgotPassword issues a reset token and emails the reset link. Returns
// storage.ErrNotFound for unknown usernames; the handler masks that so the
// endpoint never reveals whether an account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, username string) error {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return err
	}

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.store.StoreResetToken(user.Username, token, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := s.cfg.FrontendURL + "/reset-password?token=" + token
	// Usernames double as the delivery address; there is no separate
	// email column.
	if err := s.sender.SendPasswordReset(ctx, user.Username, user.Username, resetURL); err != nil {
		slog.Error("failed to send password reset email", "error", err)
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

func (s *AuthService) VerifyResetToken(token string) error {
	_, err := s.store.VerifyResetToken(token)
	return err
}

// ResetPassword hashes the replacement credential and lets the store
// consume the token atomically.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.ResetPassword(token, hash)
}

// generateToken returns 32 random bytes hex-encoded: unguessable and URL-safe.
func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
