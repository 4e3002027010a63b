package models

import "time"

// PendingConfirmation holds what was recognized on a user's last photo
// until the user confirms, corrects or replaces it.
type PendingConfirmation struct {
	UserID    int64     `json:"user_id"`
	Detected  []string  `json:"detected"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"` // zero = never
}

func (p PendingConfirmation) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}
