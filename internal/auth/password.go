package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashPassword returns the hex encoded SHA3-256 digest of the password.
func HashPassword(password string) string {
	sum := sha3.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether candidate hashes to the stored hash.
func VerifyPassword(hash, candidate string) bool {
	if hash == "" {
		return false
	}
	return HashPassword(candidate) == hash
}
