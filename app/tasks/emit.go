package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/soratane/feedwatch/app/archive"
	"github.com/soratane/feedwatch/app/state"
)

// emitNotifications archives, audits and delivers each notification in order.
// Delivery failures are logged and skipped so a Telegram outage never loses
// reconciled state.
func emitNotifications(ctx context.Context, watchName, username string, notifications []state.Notification,
	now time.Time, archiver *archive.Writer, audit AuditLog, notifier Notifier) {
	for _, n := range notifications {
		if archiver != nil {
			if err := archiver.Write(n.Item, n.Status, now); err != nil {
				slog.Warn("Failed to archive item", "watch", watchName, "item", n.Item.ID, "error", err)
			}
		}

		if audit != nil {
			if err := audit.Insert(watchName, n, now); err != nil {
				slog.Warn("Failed to record notification", "watch", watchName, "item", n.Item.ID, "error", err)
			}
		}

		if notifier != nil {
			if err := notifier.Notify(ctx, n.Item, username, n.Status); err != nil {
				slog.Warn("Failed to deliver notification", "watch", watchName, "item", n.Item.ID, "status", string(n.Status), "error", err)
			}
		}
	}
}
