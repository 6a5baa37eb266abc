package feed

import (
	"fmt"
)

// ForKind returns the normalizer for a watch kind. The manifest kind has no
// normalizer; its items are synthesized by the manifest checker.
func ForKind(kind string, username string) (Normalizer, error) {
	switch kind {
	case "jsonfeed":
		return NewJSONFeedNormalizer(username), nil
	case "rss":
		return NewRSSNormalizer(username), nil
	default:
		return nil, fmt.Errorf("no normalizer for watch kind: %s", kind)
	}
}
