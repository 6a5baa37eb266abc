package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/soratane/feedwatch/app/archive"
	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/fetch"
	"github.com/soratane/feedwatch/app/state"
	"github.com/soratane/feedwatch/app/watch"
)

type WatchFeedTask struct {
	Task
	WatchConfig *watch.Config
	client      *fetch.Client
	normalizer  feed.Normalizer
	store       *state.Store
	reconciler  *state.Reconciler
	archiver    *archive.Writer
	audit       AuditLog
	notifier    Notifier
}

func NewWatchFeedTask(watchName string, watchConfig *watch.Config, client *fetch.Client, normalizer feed.Normalizer,
	store *state.Store, reconciler *state.Reconciler, archiver *archive.Writer, audit AuditLog, notifier Notifier) *WatchFeedTask {
	return &WatchFeedTask{
		Task:        NewTask(TaskTypeWatchFeed, watchName),
		WatchConfig: watchConfig,
		client:      client,
		normalizer:  normalizer,
		store:       store,
		reconciler:  reconciler,
		archiver:    archiver,
		audit:       audit,
		notifier:    notifier,
	}
}

func (t *WatchFeedTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.WatchConfig.Settings.Enabled {
		slog.Debug("Watch disabled, skipping", "watch", t.WatchName)
		return nil
	}

	raw, err := t.client.Get(ctx, t.WatchConfig.URL, t.WatchConfig.Settings.GetTimeout(),
		t.WatchConfig.Settings.Headers, t.WatchConfig.Settings.MaxRetries)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	items, err := t.normalizer.Normalize(raw)
	if err != nil {
		return fmt.Errorf("failed to normalize feed: %w", err)
	}

	// An empty batch is indistinguishable from an upstream outage, so it
	// never feeds the reconciler; treating it as real would mark every
	// known item missing at once.
	if len(items) == 0 {
		slog.Warn("Feed produced zero items, skipping reconcile", "watch", t.WatchName)
		return nil
	}

	records := t.store.Load()
	now := time.Now().UTC()

	notifications := t.reconciler.Run(items, records, now)

	emitNotifications(ctx, t.WatchName, t.WatchConfig.Username, notifications, now, t.archiver, t.audit, t.notifier)

	if err := t.store.Save(records); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	if lastID := newestID(items); lastID != "" {
		if err := t.store.SaveLastID(lastID); err != nil {
			slog.Warn("Failed to save last seen id", "watch", t.WatchName, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", "WatchFeed",
		"watch", t.WatchName,
		"duration", t.GetDuration(),
		"total", len(items),
		"notified", len(notifications))

	return nil
}

// newestID picks the item with the highest numeric id from the batch.
func newestID(items []feed.Item) string {
	best := ""
	var bestNum int64 = -1
	for _, item := range items {
		num, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			num = 0
		}
		if num > bestNum {
			bestNum = num
			best = item.ID
		}
	}
	return best
}
