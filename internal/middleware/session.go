package middleware

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/aiscribe/aiscribe-backend/internal/config"
)

// SessionUserKey is the session entry holding the authenticated user's id.
const SessionUserKey = "user_id"

// CookieEncryptionKey derives the cookie-encryption key from SESSION_SECRET.
// The encryptcookie middleware requires a base64-encoded 32-byte AES key and
// panics on anything else; hashing the secret lets operators configure any
// string.
func CookieEncryptionKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// NewSessionStore builds the server-side cookie session store. Sessions
// live in process memory alongside the default storage driver.
func NewSessionStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.SessionExpiry,
		KeyLookup:      "cookie:aiscribe_session",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.AppEnv == "production",
		CookieSameSite: "Lax",
	})
}
