package state

import (
	"sort"
	"strconv"
	"time"

	"github.com/soratane/feedwatch/app/feed"
)

// DefaultDeleteThreshold is the number of consecutive polls an id must be
// absent before it is reported as deleted. A single missed poll is usually a
// rate limit or pagination gap, not a deletion.
const DefaultDeleteThreshold = 3

// Reconciler classifies a freshly fetched batch against persisted records.
type Reconciler struct {
	deleteThreshold int
}

func NewReconciler(deleteThreshold int) *Reconciler {
	if deleteThreshold <= 0 {
		deleteThreshold = DefaultDeleteThreshold
	}
	return &Reconciler{deleteThreshold: deleteThreshold}
}

// Run compares the current batch against the record map and returns the
// notifications to deliver, sorted by numeric id. The record map is mutated
// in place; the caller persists it after delivery. All updates in one pass
// share the single now timestamp.
func (r *Reconciler) Run(items []feed.Item, records map[string]*Record, now time.Time) []Notification {
	nowISO := now.UTC().Truncate(time.Second).Format(time.RFC3339)

	var notifications []Notification
	currentIDs := make(map[string]bool, len(items))

	for _, item := range items {
		currentIDs[item.ID] = true
		fp := feed.Fingerprint(item)
		rec := records[item.ID]

		if rec == nil {
			notifications = append(notifications, Notification{Item: item, Status: StatusNew})
			records[item.ID] = &Record{
				Fingerprint:   fp,
				Text:          item.Text,
				Images:        item.Images,
				Videos:        item.Videos,
				URL:           item.URL,
				FirstSeen:     nowISO,
				LastSeen:      nowISO,
				MissingStreak: 0,
				Deleted:       false,
			}
			continue
		}

		if rec.Fingerprint != fp {
			notifications = append(notifications, Notification{Item: item, Status: StatusEdited})
		}

		// Refresh the snapshot even without a content change: a stale but
		// not-yet-deleted id recovers silently. Deleted stays as it was, so a
		// reappearing id can never produce a second deletion notification.
		rec.Fingerprint = fp
		rec.Text = item.Text
		rec.Images = item.Images
		rec.Videos = item.Videos
		rec.URL = item.URL
		rec.LastSeen = nowISO
		rec.MissingStreak = 0
	}

	for id, rec := range records {
		if currentIDs[id] || rec.Deleted {
			continue
		}

		rec.MissingStreak++
		if rec.MissingStreak >= r.deleteThreshold {
			rec.Deleted = true
			rec.LastSeen = nowISO
			notifications = append(notifications, Notification{
				Item:   reconstructItem(id, rec),
				Status: StatusDeleted,
			})
		}
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return numericID(notifications[i].Item.ID) < numericID(notifications[j].Item.ID)
	})

	return notifications
}

// reconstructItem synthesizes a deletion notice from the stored snapshot,
// since the live item is no longer fetchable.
func reconstructItem(id string, rec *Record) feed.Item {
	text := rec.Text
	if text == "" {
		text = "(content archived)"
	}
	return feed.Item{
		ID:        id,
		Text:      text,
		URL:       rec.URL,
		Images:    rec.Images,
		Videos:    rec.Videos,
		Timestamp: rec.LastSeen,
	}
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
