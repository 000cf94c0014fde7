package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 of token. Reset tokens are persisted in this form only.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// TokenHashEqual reports, in constant time, whether provided hashes to storedHash.
// An empty storedHash never matches.
func TokenHashEqual(provided, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashToken(provided)), []byte(storedHash)) == 1
}
