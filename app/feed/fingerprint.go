package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint computes a deterministic content hash over the fields that
// constitute a meaningful change: text, images and videos. The three groups
// are joined with a distinct separator so an empty group cannot collide with
// content shifted between groups. Presentation fields (timestamp, author,
// URL) are deliberately excluded.
func Fingerprint(item Item) string {
	base := strings.Join([]string{
		norm.NFC.String(item.Text),
		strings.Join(item.Images, "|"),
		strings.Join(item.Videos, "|"),
	}, "||")

	hash := sha256.Sum256([]byte(base))
	return hex.EncodeToString(hash[:])
}
