package models

// Dream event types published to the message broker.
const (
	EventDreamCreated  = "dream.created"
	EventDreamUpdated  = "dream.updated"
	EventDreamDeleted  = "dream.deleted"
	EventDreamShared   = "dream.shared"
	EventDreamUnshared = "dream.unshared"
	EventInsightAdded  = "dream.insight"
)

// DreamEvent represents a change to a user's journal.
type DreamEvent struct {
	EventID   string `json:"event_id"`  // Unique identifier of the event
	Type      string `json:"type"`      // One of the Event* constants
	UserID    string `json:"user_id"`   // Owner of the dream
	DreamID   string `json:"dream_id"`  // Affected dream
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
