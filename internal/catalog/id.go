package catalog

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// PointID returns a stable UUID for a record url, suitable as a hosted-index point id.
// The same url always yields the same id.
func PointID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

// TextHash returns the hex sha256 of text. Used to detect corpus text changes.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
