package models

import "time"

// LogEvent is published after a record has been appended to the log.
type LogEvent struct {
	Kind       string    `json:"kind"` // "meal.logged"
	RecordID   string    `json:"record_id"`
	UserID     string    `json:"user_id"`
	DishText   string    `json:"dish_text"`
	Resolved   int       `json:"resolved_items"`
	Unresolved int       `json:"unresolved_items"`
	Totals     Nutrients `json:"totals"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
