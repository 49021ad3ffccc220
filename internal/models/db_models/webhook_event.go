package db_models

import "gorm.io/datatypes"

type WebhookOutcome string

const (
	WebhookApplied   WebhookOutcome = "applied"
	WebhookUnmatched WebhookOutcome = "unmatched"
	WebhookIgnored   WebhookOutcome = "ignored"
)

type WebhookEvent struct {
	BaseModel
	EventType     string         `gorm:"size:64;index"`
	TransactionID string         `gorm:"size:64;index"`
	PaymentID     *string        `gorm:"size:32"`
	Outcome       WebhookOutcome `gorm:"size:16"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
}
