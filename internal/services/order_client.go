package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	dbm "payflow/internal/models/db_models"
	"payflow/pkg/utils"
)

// Order statuses the Order service accepts for each payment outcome. Outcomes
// missing here produce no call.
var orderStatusByOutcome = map[string]string{
	"completed": "confirmed",
	"failed":    "cancelled",
	"cancelled": "cancelled",
}

type OrderNotifier interface {
	NotifyPaymentOutcome(ctx context.Context, orderID int64, outcome string) error
}

type orderClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewOrderClient(baseURL string, timeout time.Duration, log *zap.Logger) OrderNotifier {
	return &orderClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(zap.String("component", "order_client")),
	}
}

func (o *orderClient) NotifyPaymentOutcome(ctx context.Context, orderID int64, outcome string) error {
	status, ok := orderStatusByOutcome[outcome]
	if !ok {
		return nil
	}

	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/orders/%d/status", o.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: order service returned %d", utils.ErrUpstreamUnavailable, resp.StatusCode)
	}

	o.log.Info("order status updated", zap.Int64("order_id", orderID), zap.String("status", status))
	return nil
}

// NotifyOrderTaskHandler adapts an OrderNotifier to the task dispatcher.
func NotifyOrderTaskHandler(notifier OrderNotifier) TaskHandler {
	return func(ctx context.Context, task *dbm.Task) error {
		var payload notifyOrderPayload
		if err := decodePayload(task, &payload); err != nil {
			return err
		}
		return notifier.NotifyPaymentOutcome(ctx, payload.OrderID, payload.Outcome)
	}
}
