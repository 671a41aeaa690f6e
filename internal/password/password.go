package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. keyLen and the 16-byte salt match the stored format
// `<derivedKeyHex>.<saltHex>` used by existing credentials.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	keyLen  = 64
	saltLen = 16
)

// Hash derives a key from the password under a fresh random salt and
// returns it as `<derivedKeyHex>.<saltHex>`.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + saltHex, nil
}

// Verify recomputes the derived key for the supplied password and compares
// it to the stored one in constant time. Malformed stored values fail
// closed: the result is false, never an error.
func Verify(supplied, stored string) bool {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false
	}

	storedKey, err := hex.DecodeString(parts[0])
	if err != nil || len(storedKey) != keyLen {
		return false
	}

	suppliedKey, err := scrypt.Key([]byte(supplied), []byte(parts[1]), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(storedKey, suppliedKey) == 1
}
