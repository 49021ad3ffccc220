package request_models

type WebhookPayload struct {
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

// TransactionID returns data.transaction_id when it is a non-empty string.
func (w WebhookPayload) TransactionID() string {
	if w.Data == nil {
		return ""
	}
	id, _ := w.Data["transaction_id"].(string)
	return id
}
