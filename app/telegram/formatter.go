package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/state"
)

var statusHeaders = map[state.Status]string{
	state.StatusNew:     "🆕 New post",
	state.StatusEdited:  "✏️ Post edited",
	state.StatusDeleted: "❌ Post possibly deleted",
}

// FormatItem renders an item as a Telegram HTML message: status header,
// author line, escaped body, quoted block, source link and video links.
func FormatItem(item feed.Item, username string, status state.Status) string {
	var lines []string

	if header, ok := statusHeaders[status]; ok {
		lines = append(lines, header, "")
	}

	if item.IsRetweet {
		lines = append(lines, fmt.Sprintf("🔁 <b>@%s</b> reposted", escapeHTML(username)))
	} else {
		lines = append(lines, fmt.Sprintf("🐦 <b>@%s</b> posted", escapeHTML(username)))
	}
	lines = append(lines, "", escapeHTML(item.Text))

	if item.QuoteAuthor != "" || item.QuoteText != "" {
		lines = append(lines, "", "┌──── quote ────")
		if item.QuoteAuthor != "" {
			lines = append(lines, fmt.Sprintf("│ <b>%s</b>", escapeHTML(item.QuoteAuthor)))
		}
		for _, line := range strings.Split(item.QuoteText, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, "│ "+escapeHTML(line))
			}
		}
		lines = append(lines, "└─────────────")
	}

	lines = append(lines, "", fmt.Sprintf(`🔗 <a href="%s">View original</a>`, item.URL))

	if ts := formatTimestamp(item.Timestamp); ts != "" {
		lines = append(lines, "⏰ "+ts)
	}

	for _, v := range item.Videos {
		lines = append(lines, fmt.Sprintf(`🎞 <a href="%s">Video</a>`, v))
	}

	return strings.Join(lines, "\n")
}

// Notify renders and delivers one notification. Photos follow the text
// message unless the item is a repost or carries video, in which case the
// links in the text are enough.
func (c *Client) Notify(ctx context.Context, item feed.Item, username string, status state.Status) error {
	if c == nil {
		return nil
	}

	msg := FormatItem(item, username, status)
	if err := c.SendText(ctx, msg, false); err != nil {
		return err
	}

	if item.IsRetweet || len(item.Videos) > 0 {
		return nil
	}

	if len(item.Images) == 1 {
		if err := c.SendPhoto(ctx, item.Images[0], ""); err != nil {
			slog.Warn("Failed to send photo", "item", item.ID, "error", err)
		}
	} else if len(item.Images) > 1 {
		if err := c.SendMediaGroup(ctx, item.Images, ""); err != nil {
			slog.Warn("Failed to send photo group", "item", item.ID, "error", err)
		}
	}

	return nil
}

// formatTimestamp renders the feed's publish time in JST, the audience
// timezone. Feed formats vary (RFC3339 in JSON feeds, RFC1123 in RSS), so
// parsing is lenient; an unparseable value is shown verbatim.
func formatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}

	parsed, err := dateparse.ParseAny(ts)
	if err != nil {
		return ts
	}

	jst := time.FixedZone("JST", 9*60*60)
	return parsed.In(jst).Format("2006/01/02 15:04:05 JST")
}

func escapeHTML(text string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(text)
}
