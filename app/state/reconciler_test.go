package state

import (
	"testing"
	"time"

	"github.com/soratane/feedwatch/app/feed"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestReconcileNewItem(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	notifications := r.Run([]feed.Item{{ID: "1", Text: "hello"}}, records, testNow)

	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].Status != StatusNew {
		t.Errorf("Expected status new, got %s", notifications[0].Status)
	}
	if notifications[0].Item.ID != "1" {
		t.Errorf("Expected item 1, got %s", notifications[0].Item.ID)
	}

	rec := records["1"]
	if rec == nil {
		t.Fatal("Expected record for id 1")
	}
	if rec.MissingStreak != 0 || rec.Deleted {
		t.Error("New record should have zero streak and not be deleted")
	}
	if rec.FirstSeen != rec.LastSeen {
		t.Error("First and last seen should match on first observation")
	}
}

func TestReconcileEditDetection(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	r.Run([]feed.Item{{ID: "1", Text: "hello"}}, records, testNow)
	before := records["1"].Fingerprint

	notifications := r.Run([]feed.Item{{ID: "1", Text: "hello!"}}, records, testNow.Add(time.Minute))

	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].Status != StatusEdited {
		t.Errorf("Expected status edited, got %s", notifications[0].Status)
	}
	if records["1"].Fingerprint == before {
		t.Error("Fingerprint should change after edit")
	}
	if records["1"].Text != "hello!" {
		t.Errorf("Snapshot should be updated, got %q", records["1"].Text)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)
	batch := []feed.Item{
		{ID: "1", Text: "hello", Images: []string{"https://example.com/a.jpg"}},
		{ID: "2", Text: "world"},
	}

	first := r.Run(batch, records, testNow)
	if len(first) != 2 {
		t.Fatalf("Expected 2 notifications on first run, got %d", len(first))
	}

	second := r.Run(batch, records, testNow.Add(time.Minute))
	if len(second) != 0 {
		t.Errorf("Expected no notifications on identical batch, got %d", len(second))
	}
}

func TestReconcileDeletionDebounce(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	r.Run([]feed.Item{{ID: "1", Text: "soon gone", URL: "https://x.com/u/status/1"}}, records, testNow)

	// First and second absence: streak only.
	for i := 1; i <= 2; i++ {
		notifications := r.Run(nil, records, testNow.Add(time.Duration(i)*time.Minute))
		if len(notifications) != 0 {
			t.Fatalf("Absence %d should not notify, got %d notifications", i, len(notifications))
		}
		if records["1"].MissingStreak != i {
			t.Errorf("Expected streak %d, got %d", i, records["1"].MissingStreak)
		}
		if records["1"].Deleted {
			t.Error("Record must not be deleted before threshold")
		}
	}

	// Third absence crosses the threshold.
	notifications := r.Run(nil, records, testNow.Add(3*time.Minute))
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 deletion notification, got %d", len(notifications))
	}
	if notifications[0].Status != StatusDeleted {
		t.Errorf("Expected status deleted, got %s", notifications[0].Status)
	}
	if notifications[0].Item.Text != "soon gone" {
		t.Errorf("Deletion should carry the stored snapshot, got %q", notifications[0].Item.Text)
	}
	if notifications[0].Item.URL != "https://x.com/u/status/1" {
		t.Errorf("Deletion should carry the stored URL, got %q", notifications[0].Item.URL)
	}
	if !records["1"].Deleted {
		t.Error("Record should be flagged deleted")
	}

	// Fourth absence: already deleted, no further notification or counting.
	streak := records["1"].MissingStreak
	notifications = r.Run(nil, records, testNow.Add(4*time.Minute))
	if len(notifications) != 0 {
		t.Errorf("Already-deleted id must not re-notify, got %d", len(notifications))
	}
	if records["1"].MissingStreak != streak {
		t.Error("Deleted record must be excluded from streak accounting")
	}
}

func TestReconcileRecoveryResetsStreak(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	r.Run([]feed.Item{{ID: "1", Text: "flaky"}}, records, testNow)
	r.Run(nil, records, testNow.Add(1*time.Minute))
	r.Run(nil, records, testNow.Add(2*time.Minute))

	if records["1"].MissingStreak != 2 {
		t.Fatalf("Expected streak 2, got %d", records["1"].MissingStreak)
	}

	notifications := r.Run([]feed.Item{{ID: "1", Text: "flaky"}}, records, testNow.Add(3*time.Minute))
	if len(notifications) != 0 {
		t.Errorf("Silent recovery should not notify, got %d", len(notifications))
	}
	if records["1"].MissingStreak != 0 {
		t.Errorf("Streak should reset on reappearance, got %d", records["1"].MissingStreak)
	}
	if records["1"].Deleted {
		t.Error("Recovered record must not be deleted")
	}
}

func TestReconcileDeletedThenReappears(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	r.Run([]feed.Item{{ID: "1", Text: "ghost"}}, records, testNow)
	r.Run(nil, records, testNow.Add(1*time.Minute))
	r.Run(nil, records, testNow.Add(2*time.Minute))
	r.Run(nil, records, testNow.Add(3*time.Minute))

	if !records["1"].Deleted {
		t.Fatal("Expected record to be deleted")
	}

	// Same content returns: the existing record continues silently. There is
	// no "undeleted" status, and the deleted flag is terminal.
	notifications := r.Run([]feed.Item{{ID: "1", Text: "ghost"}}, records, testNow.Add(4*time.Minute))
	if len(notifications) != 0 {
		t.Errorf("Reappearing deleted id with same content should be silent, got %d", len(notifications))
	}
	if !records["1"].Deleted {
		t.Error("Reappearance must not clear the deleted flag")
	}

	// Changed content returns as an edit.
	notifications = r.Run([]feed.Item{{ID: "1", Text: "ghost rewritten"}}, records, testNow.Add(5*time.Minute))
	if len(notifications) != 1 || notifications[0].Status != StatusEdited {
		t.Errorf("Reappearing deleted id with new content should be an edit, got %v", notifications)
	}

	// A second disappearance never produces a second deletion notification.
	for i := 0; i < 5; i++ {
		notifications = r.Run(nil, records, testNow.Add(time.Duration(6+i)*time.Minute))
		if len(notifications) != 0 {
			t.Fatalf("Already-deleted id must never be re-deleted, got %v", notifications)
		}
	}
	if records["1"].MissingStreak != 0 {
		t.Errorf("Deleted record must stay out of streak accounting, got %d", records["1"].MissingStreak)
	}
}

func TestReconcileNumericOrdering(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	notifications := r.Run([]feed.Item{
		{ID: "10", Text: "ten"},
		{ID: "2", Text: "two"},
	}, records, testNow)

	if len(notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Item.ID != "2" || notifications[1].Item.ID != "10" {
		t.Errorf("Expected numeric order [2 10], got [%s %s]",
			notifications[0].Item.ID, notifications[1].Item.ID)
	}
}

func TestReconcileNonNumericIDSortsFirst(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	notifications := r.Run([]feed.Item{
		{ID: "5", Text: "five"},
		{ID: "manifest-pc", Text: "digest"},
	}, records, testNow)

	if len(notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Item.ID != "manifest-pc" {
		t.Errorf("Non-numeric id should sort as 0, got first id %s", notifications[0].Item.ID)
	}
}

func TestReconcileEmptySnapshotPlaceholder(t *testing.T) {
	r := NewReconciler(1)
	records := map[string]*Record{
		"7": {Fingerprint: "x", Text: ""},
	}

	notifications := r.Run(nil, records, testNow)
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 deletion, got %d", len(notifications))
	}
	if notifications[0].Item.Text != "(content archived)" {
		t.Errorf("Expected placeholder text, got %q", notifications[0].Item.Text)
	}
}

func TestReconcileSharedNowTimestamp(t *testing.T) {
	r := NewReconciler(3)
	records := make(map[string]*Record)

	r.Run([]feed.Item{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}}, records, testNow)

	if records["1"].LastSeen != records["2"].LastSeen {
		t.Error("All records in one pass must share the same timestamp")
	}
	if records["1"].LastSeen != "2026-09-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp format: %s", records["1"].LastSeen)
	}
}
