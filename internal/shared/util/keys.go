package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// OwnerDir maps a user ID to a stable directory name. User IDs such as
// "guest:<id>" are not safe as object key segments.
func OwnerDir(userID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(userID)))
	return "u" + hex.EncodeToString(sum[:12])
}
