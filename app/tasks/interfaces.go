package tasks

import (
	"context"
	"time"

	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/state"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetWatchName() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

// Notifier delivers a classified item to the configured chat. A nil
// *telegram.Client satisfies it and drops every send.
type Notifier interface {
	Notify(ctx context.Context, item feed.Item, username string, status state.Status) error
}

// AuditLog records every emitted notification. Optional; tasks tolerate nil.
type AuditLog interface {
	Insert(watchName string, n state.Notification, now time.Time) error
}
