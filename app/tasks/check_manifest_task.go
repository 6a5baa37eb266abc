package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soratane/feedwatch/app/archive"
	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/fetch"
	"github.com/soratane/feedwatch/app/manifest"
	"github.com/soratane/feedwatch/app/state"
	"github.com/soratane/feedwatch/app/watch"
)

type CheckManifestTask struct {
	Task
	WatchConfig *watch.Config
	client      *fetch.Client
	store       *state.Store
	reconciler  *state.Reconciler
	archiver    *archive.Writer
	audit       AuditLog
	notifier    Notifier
}

func NewCheckManifestTask(watchName string, watchConfig *watch.Config, client *fetch.Client,
	store *state.Store, reconciler *state.Reconciler, archiver *archive.Writer, audit AuditLog, notifier Notifier) *CheckManifestTask {
	return &CheckManifestTask{
		Task:        NewTask(TaskTypeCheckManifest, watchName),
		WatchConfig: watchConfig,
		client:      client,
		store:       store,
		reconciler:  reconciler,
		archiver:    archiver,
		audit:       audit,
		notifier:    notifier,
	}
}

func (t *CheckManifestTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.WatchConfig.Settings.Enabled {
		slog.Debug("Watch disabled, skipping", "watch", t.WatchName)
		return nil
	}

	now := time.Now().UTC()

	item, err := manifest.Check(ctx, t.client, t.WatchConfig, now)
	if err != nil {
		return fmt.Errorf("failed to check manifest: %w", err)
	}

	records := t.store.Load()

	notifications := t.reconciler.Run([]feed.Item{item}, records, now)

	emitNotifications(ctx, t.WatchName, t.WatchName, notifications, now, t.archiver, t.audit, t.notifier)

	if err := t.store.Save(records); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	slog.Info("Task completed",
		"type", "CheckManifest",
		"watch", t.WatchName,
		"duration", t.GetDuration(),
		"notified", len(notifications))

	return nil
}
