package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/models/response_models"
	"payflow/internal/repositories"
	"payflow/internal/services"
	mem "payflow/pkg/memcache"
	"payflow/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
	idempotency    idempotencyGuard
}

func NewPaymentController(paymentService services.PaymentService, store mem.IdempotencyStore, ttl time.Duration, log *zap.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		idempotency:    idempotencyGuard{store: store, ttl: ttl, log: log.With(zap.String("component", "payment_controller"))},
	}
}

// CreatePayment godoc
// @Summary Create a payment for an order
// @Description Records the payment and schedules the gateway charge
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentRequest true "Create Payment Request"
// @Param Idempotency-Key header string false "Replay-safe request key"
// @Success 200 {object} response_models.PaymentResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /payments [post]
func (p *PaymentController) CreatePayment(c *gin.Context) {
	var request request_models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var key string
	if h := c.GetHeader(IdempotencyHeader); h != "" {
		key = "payment:" + h
		replayID, owned := p.idempotency.reserve(c, key)
		if !owned {
			p.replay(c, replayID)
			return
		}
	}

	payment, err := p.paymentService.CreatePayment(c.Request.Context(), request)
	if err != nil {
		if key != "" {
			p.idempotency.release(c, key)
		}
		utils.HandleServiceError(c, err)
		return
	}

	if key != "" {
		p.idempotency.complete(c, key, payment.PaymentID)
	}

	utils.RespondOK(c, response_models.NewPaymentResponse(payment))
}

func (p *PaymentController) replay(c *gin.Context, paymentID string) {
	if paymentID == "" {
		respondInProgress(c)
		return
	}
	payment, err := p.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondOK(c, response_models.NewPaymentResponse(payment))
}

// GetPayment godoc
// @Summary Get a payment by its public id
// @Tags Payments
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} response_models.PaymentResponse
// @Failure 404 {object} utils.APIResponse
// @Router /payments/{payment_id} [get]
func (p *PaymentController) GetPayment(c *gin.Context) {
	payment, err := p.paymentService.GetPayment(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewPaymentResponse(payment))
}

// ListPayments godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param user_id query string false "Filter by user"
// @Param order_id query int false "Filter by order"
// @Param status query string false "Filter by status"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(10)
// @Success 200 {array} response_models.PaymentResponse
// @Router /payments [get]
func (p *PaymentController) ListPayments(c *gin.Context) {
	var query request_models.ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	payments, err := p.paymentService.ListPayments(c.Request.Context(), repositories.PaymentFilter{
		UserID:  query.UserID,
		OrderID: query.OrderID,
		Status:  db_models.PaymentStatus(query.Status),
		Skip:    query.Skip,
		Limit:   query.Limit,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewPaymentListResponse(payments))
}
