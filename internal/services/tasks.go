package services

import (
	"encoding/json"
	"fmt"

	"payflow/internal/models/db_models"
)

type processPaymentPayload struct {
	PaymentID string         `json:"payment_id"`
	Details   map[string]any `json:"details,omitempty"`
}

type processRefundPayload struct {
	RefundID string `json:"refund_id"`
}

type notifyOrderPayload struct {
	PaymentID string `json:"payment_id"`
	OrderID   int64  `json:"order_id"`
	Outcome   string `json:"outcome"`
}

func newTask(kind db_models.TaskKind, aggregateID string, payload any) (*db_models.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return &db_models.Task{
		Kind:        kind,
		AggregateID: aggregateID,
		Payload:     raw,
	}, nil
}

func decodePayload(task *db_models.Task, v any) error {
	if err := json.Unmarshal(task.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", task.Kind, err)
	}
	return nil
}

func jsonRaw(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
