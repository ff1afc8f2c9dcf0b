package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize       = 16
	hashSize       = 32
	hashIterations = 10000
)

// HashPassword derives a PBKDF2-SHA256 hash and encodes salt||hash as base64.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := pbkdf2.Key([]byte(password), salt, hashIterations, hashSize, sha256.New)

	combined := make([]byte, 0, saltSize+hashSize)
	combined = append(combined, salt...)
	combined = append(combined, hash...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// VerifyPassword checks a password against a stored salt||hash credential.
// The comparison is constant-time.
func VerifyPassword(password, stored string) bool {
	combined, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(combined) != saltSize+hashSize {
		return false
	}

	salt := combined[:saltSize]
	expected := combined[saltSize:]

	hash := pbkdf2.Key([]byte(password), salt, hashIterations, hashSize, sha256.New)

	return subtle.ConstantTimeCompare(hash, expected) == 1
}
