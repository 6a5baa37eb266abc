package state

import (
	"github.com/soratane/feedwatch/app/feed"
)

// Status classifies a change detected during reconciliation.
type Status string

const (
	StatusNew     Status = "new"
	StatusEdited  Status = "edited"
	StatusDeleted Status = "deleted"
)

// Record is the persisted memory of one item id ever seen. The content
// snapshot allows a deletion notice to be reconstructed after the live item
// is gone. Deleted is terminal: once set it is never cleared.
type Record struct {
	Fingerprint   string   `json:"fingerprint"`
	Text          string   `json:"text"`
	Images        []string `json:"images"`
	Videos        []string `json:"videos"`
	URL           string   `json:"url"`
	FirstSeen     string   `json:"first_seen"`
	LastSeen      string   `json:"last_seen"`
	MissingStreak int      `json:"missing_streak"`
	Deleted       bool     `json:"deleted"`
}

// Notification pairs an item with its detected status. It is transient;
// its effect persists only as the record update.
type Notification struct {
	Item   feed.Item
	Status Status
}
