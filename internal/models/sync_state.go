package models

import "time"

// SyncStateID is the fixed primary key of the singleton sync_state row.
const SyncStateID = 1

// SyncState records the outcome of the most recent synchronization pass.
// Exactly one row exists; it is overwritten on every run and is purely
// observational — nothing reads it back to decide where the next pass starts.
type SyncState struct {
	ID               uint       `gorm:"primaryKey" json:"-"`
	LastRunAt        time.Time  `json:"last_run_at"`
	LastSeenPostDate *time.Time `json:"last_seen_post_date"`
	LastSeenPostID   *int64     `json:"last_seen_post_id"`
}
