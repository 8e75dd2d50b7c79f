package util

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashToken derives the session store key of a bearer token.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
