// Package archive persists a human-readable copy of every notified item, so
// the content survives later edits and deletions of the live post.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/state"
)

// Writer writes one markdown file per item id, overwriting any earlier
// archive for that id. Failures are returned to the caller to log; they must
// never block delivery of other notifications.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Write(item feed.Item, status state.Status, now time.Time) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	nowISO := now.UTC().Truncate(time.Second).Format(time.RFC3339)

	lines := []string{
		fmt.Sprintf("# %s %s", status, item.ID),
		"",
		fmt.Sprintf("Time: %s", nowISO),
		fmt.Sprintf("Link: %s", item.URL),
		"",
		"## Body",
		item.Text,
		"",
	}

	if item.QuoteAuthor != "" || item.QuoteText != "" {
		lines = append(lines, "## Quote")
		if item.QuoteAuthor != "" {
			lines = append(lines, fmt.Sprintf("Author: %s", item.QuoteAuthor))
		}
		if item.QuoteText != "" {
			lines = append(lines, item.QuoteText)
		}
		lines = append(lines, "")
	}

	if len(item.Images) > 0 {
		lines = append(lines, "## Images")
		lines = append(lines, item.Images...)
		lines = append(lines, "")
	}

	if len(item.Videos) > 0 {
		lines = append(lines, "## Videos")
		lines = append(lines, item.Videos...)
		lines = append(lines, "")
	}

	path := filepath.Join(w.dir, item.ID+".md")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", path, err)
	}

	return nil
}
