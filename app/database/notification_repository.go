package database

import (
	"fmt"
	"time"

	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/state"
)

// NotificationRepository handles the audit log of emitted notifications
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert records a notification that was emitted for a watch target
func (r *NotificationRepository) Insert(watchName string, n state.Notification, now time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO notifications (watch_name, item_id, status, fingerprint, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, watchName, n.Item.ID, string(n.Status), feed.Fingerprint(n.Item), n.Item.URL,
		now.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// CountByStatus returns how many notifications were emitted per status for a watch target
func (r *NotificationRepository) CountByStatus(watchName string) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT status, COUNT(*)
		FROM notifications
		WHERE watch_name = ?
		GROUP BY status
	`, watchName)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan notification count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification counts: %w", err)
	}

	return counts, nil
}
