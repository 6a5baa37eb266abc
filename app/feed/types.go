package feed

// Item is the canonical representation of a monitored post, independent of
// the source feed format. Only Text, Images and Videos participate in change
// detection; the remaining fields are presentation data.
type Item struct {
	ID           string
	Text         string
	URL          string
	Images       []string
	Videos       []string
	Timestamp    string // publish time as reported by the feed, opaque
	IsRetweet    bool
	QuoteAuthor  string
	QuoteText    string
	AuthorName   string
	AuthorAvatar string
}

// Normalizer converts a raw feed payload into canonical Items. Items without
// a usable ID are skipped, not reported as errors.
type Normalizer interface {
	Normalize(raw []byte) ([]Item, error)
}
