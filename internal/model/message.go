package model

import "time"

// FollowUpMessage is a drafted follow-up for one action item owner. One
// message exists per distinct resolved owner email.
type FollowUpMessage struct {
	ToEmail string `json:"to_email"`
	ToName  string `json:"to_name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// ActionItems lists the IDs of the items the message covers.
	ActionItems []string `json:"action_items"`
}

// NotificationStatus is the dispatch outcome of a simulated notification.
type NotificationStatus string

const (
	NotificationSimulated NotificationStatus = "simulated"
	NotificationFailed    NotificationStatus = "failed"
)

// NotificationEvent records a simulated dispatch. No network egress occurs.
type NotificationEvent struct {
	To          string             `json:"to"`
	ToName      string             `json:"to_name"`
	Subject     string             `json:"subject"`
	Body        string             `json:"body"`
	Status      NotificationStatus `json:"status"`
	TriggeredAt time.Time          `json:"triggered_at"`
}
