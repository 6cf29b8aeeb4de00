package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex sha256 of a document, used to detect unchanged saves.
func Hash(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}
