package middleware

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieEncryptionKey(t *testing.T) {
	key := CookieEncryptionKey("supersecret-session-key")

	// encryptcookie feeds the decoded key to aes.NewCipher: it must be
	// valid base64 holding exactly 32 bytes, whatever the secret looks like.
	raw, err := base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	assert.Equal(t, key, CookieEncryptionKey("supersecret-session-key"))
	assert.NotEqual(t, key, CookieEncryptionKey("a-different-secret"))
}
