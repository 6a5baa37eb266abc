// Package manifest watches opaque asset-manifest endpoints by body digest.
// A manifest target yields exactly one item per poll; a digest change then
// surfaces through the regular reconciliation pass as an edit.
package manifest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/fetch"
	"github.com/soratane/feedwatch/app/watch"
)

// Check fetches the manifest body and synthesizes its canonical item. The
// id is the watch name, so manifest targets and feed targets never share
// state keys within a store.
func Check(ctx context.Context, client *fetch.Client, target *watch.Config, now time.Time) (feed.Item, error) {
	data, err := client.Get(ctx, target.URL, target.Settings.GetTimeout(), target.Settings.Headers, target.Settings.MaxRetries)
	if err != nil {
		return feed.Item{}, fmt.Errorf("failed to fetch manifest: %w", err)
	}

	digest := md5.Sum(data)

	return feed.Item{
		ID:        target.Name,
		Text:      fmt.Sprintf("md5 %s", hex.EncodeToString(digest[:])),
		URL:       target.URL,
		Timestamp: now.UTC().Truncate(time.Second).Format(time.RFC3339),
	}, nil
}
