package models

import "time"

// SweepState is a single-row watermark for the past-checkout sweep. The row
// is locked and advanced inside the sweep transaction, giving all server
// instances a shared throttle instead of a per-session timestamp.
type SweepState struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LastRunAt time.Time `gorm:"column:last_run_at" json:"lastRunAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
