package storage

import (
	"errors"
	"time"

	"github.com/aiscribe/aiscribe-backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrQuotaExceeded is returned by ConsumeGeneration when a free user
	// has used up the daily allowance.
	ErrQuotaExceeded = errors.New("daily generation limit reached")
	// ErrTokenInvalid is returned for unknown reset tokens.
	ErrTokenInvalid = errors.New("invalid or expired reset token")
	// ErrTokenExpired is returned for reset tokens past their expiry. The
	// token is removed from the store as a side effect.
	ErrTokenExpired = errors.New("reset token has expired")
)

// Storage owns every table of the application. The memory implementation is
// the canonical one; the Postgres implementation exists so a persistent
// backend can be swapped in without touching callers.
type Storage interface {
	// User operations. CreateUser does not enforce username uniqueness;
	// callers must pre-check with GetUserByUsername.
	CreateUser(username, passwordHash string) (*models.User, error)
	GetUser(id int) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UpdateUserPremium(id int, premium bool) (*models.User, error)

	// IncrementUserGenerations bumps the daily counter, resetting it to 1
	// when the day-of-month of lastGeneratedAt differs from today.
	IncrementUserGenerations(id int) (*models.User, error)
	// ConsumeGeneration is the atomic quota gate: it applies the same day
	// rollover, rejects with ErrQuotaExceeded once the effective counter
	// has reached limit, and otherwise increments. limit <= 0 means
	// unlimited. Check and increment happen under one critical section.
	ConsumeGeneration(id, limit int) (*models.User, error)
	// ResetUserGenerations forces the counter back to zero.
	ResetUserGenerations(id int) (*models.User, error)

	// Tool operations. The catalog is seeded at initialization; CreateTool
	// exists for seeding and operator additions, there is no public route
	// for it.
	CreateTool(tool models.Tool) (*models.Tool, error)
	GetTools() ([]models.Tool, error)
	GetTool(id int) (*models.Tool, error)

	// Generation operations.
	CreateGeneration(gen models.Generation) (*models.Generation, error)
	// GetGenerations returns the user's generations newest-first.
	GetGenerations(userID int) ([]models.Generation, error)
	GetGeneration(id int) (*models.Generation, error)
	// DeleteGeneration reports whether a record existed. Idempotent.
	DeleteGeneration(id int) (bool, error)

	// Password-reset token operations. Expired tokens are garbage-collected
	// lazily on access; there is no background sweep.
	StoreResetToken(username, token string, expiry time.Time) error
	// VerifyResetToken returns the owning username for a valid token,
	// ErrTokenInvalid for an unknown one, or ErrTokenExpired for a stale
	// one (removing it).
	VerifyResetToken(token string) (string, error)
	// ResetPassword consumes the token and overwrites the user's stored
	// credential with hashedPassword. Verification and consumption are a
	// single atomic step so a token can never be spent twice.
	ResetPassword(token, hashedPassword string) error
}
