package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// RSSNormalizer converts an RSS/XML feed into canonical Items. Tweet IDs are
// recovered from the item link or guid; items without one are skipped.
type RSSNormalizer struct {
	username     string
	gofeedParser *gofeed.Parser
}

func NewRSSNormalizer(username string) *RSSNormalizer {
	return &RSSNormalizer{
		username:     username,
		gofeedParser: gofeed.NewParser(),
	}
}

func (n *RSSNormalizer) Normalize(raw []byte) ([]Item, error) {
	parsed, err := n.gofeedParser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, rawItem := range parsed.Items {
		if item, ok := n.normalizeItem(rawItem); ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func (n *RSSNormalizer) normalizeItem(raw *gofeed.Item) (Item, bool) {
	id := extractStatusID(raw.Link)
	if id == "" {
		id = extractStatusID(raw.GUID)
	}
	if id == "" {
		return Item{}, false
	}

	// Titles are often truncated; prefer the description when it is longer.
	baseHTML := raw.Title
	if len(raw.Description) > len(baseHTML) {
		baseHTML = raw.Description
	}

	images, videos := extractMedia(raw.Description)
	text := CleanHTML(baseHTML)

	item := Item{
		ID:        id,
		Text:      text,
		URL:       raw.Link,
		Images:    images,
		Videos:    videos,
		Timestamp: raw.Published,
		IsRetweet: strings.HasPrefix(text, "RT "),
	}

	if item.URL == "" {
		item.URL = fmt.Sprintf("https://x.com/%s/status/%s", n.username, id)
	}

	if len(raw.Authors) > 0 && raw.Authors[0] != nil {
		item.AuthorName = raw.Authors[0].Name
	}

	return item, true
}
