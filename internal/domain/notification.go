package domain

import "time"

type NotificationType string

const (
	NotificationPayment    NotificationType = "payment"
	NotificationProvision  NotificationType = "funds_provision"
	NotificationInvestment NotificationType = "investment"
	NotificationSecurity   NotificationType = "security"
	NotificationInfo       NotificationType = "info"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"-"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
