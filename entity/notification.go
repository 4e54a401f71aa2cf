package entity

import "time"

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is an append-only inbox record produced as a side effect
// of ledger state transitions.
type Notification struct {
	ID        int64            `json:"id"`
	AccountID int64            `json:"account_id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"timestamp"`
}
