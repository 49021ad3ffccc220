package response_models

import (
	"time"

	"github.com/google/uuid"
	"payflow/internal/models/db_models"
)

// PaymentMethodResponse never exposes the token.
type PaymentMethodResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	MethodType  string    `json:"method_type"`
	Provider    string    `json:"provider"`
	LastFour    string    `json:"last_four"`
	ExpiryMonth int       `json:"expiry_month"`
	ExpiryYear  int       `json:"expiry_year"`
	IsDefault   bool      `json:"is_default"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewPaymentMethodResponse(m *db_models.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		MethodType:  m.MethodType,
		Provider:    m.Provider,
		LastFour:    m.LastFour,
		ExpiryMonth: m.ExpiryMonth,
		ExpiryYear:  m.ExpiryYear,
		IsDefault:   m.IsDefault,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

func NewPaymentMethodListResponse(methods []db_models.PaymentMethod) []PaymentMethodResponse {
	out := make([]PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		out = append(out, NewPaymentMethodResponse(&methods[i]))
	}
	return out
}
