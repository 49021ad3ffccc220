package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payflow/internal/models/request_models"
	"payflow/internal/models/response_models"
	"payflow/internal/services"
	mem "payflow/pkg/memcache"
	"payflow/pkg/utils"
)

type RefundController struct {
	refundService services.RefundService
	idempotency   idempotencyGuard
}

func NewRefundController(refundService services.RefundService, store mem.IdempotencyStore, ttl time.Duration, log *zap.Logger) *RefundController {
	return &RefundController{
		refundService: refundService,
		idempotency:   idempotencyGuard{store: store, ttl: ttl, log: log.With(zap.String("component", "refund_controller"))},
	}
}

// CreateRefund godoc
// @Summary Refund a completed payment
// @Description Omitting amount refunds the full payment
// @Tags Refunds
// @Accept json
// @Produce json
// @Param request body request_models.CreateRefundRequest true "Create Refund Request"
// @Param Idempotency-Key header string false "Replay-safe request key"
// @Success 200 {object} response_models.RefundResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /refunds [post]
func (r *RefundController) CreateRefund(c *gin.Context) {
	var request request_models.CreateRefundRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx := c.Request.Context()
	var key string
	if h := c.GetHeader(IdempotencyHeader); h != "" {
		key = "refund:" + h
		replayID, owned := r.idempotency.reserve(c, key)
		if !owned {
			if replayID == "" {
				respondInProgress(c)
				return
			}
			refund, err := r.refundService.GetRefund(ctx, replayID)
			if err != nil {
				utils.HandleServiceError(c, err)
				return
			}
			utils.RespondOK(c, response_models.NewRefundResponse(refund))
			return
		}
	}

	refund, err := r.refundService.CreateRefund(ctx, request)
	if err != nil {
		if key != "" {
			r.idempotency.release(c, key)
		}
		utils.HandleServiceError(c, err)
		return
	}

	if key != "" {
		r.idempotency.complete(c, key, refund.RefundID)
	}

	utils.RespondOK(c, response_models.NewRefundResponse(refund))
}

func (r *RefundController) GetRefund(c *gin.Context) {
	refund, err := r.refundService.GetRefund(c.Request.Context(), c.Param("refund_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewRefundResponse(refund))
}

// ListRefunds godoc
// @Summary List refunds issued against a payment
// @Tags Refunds
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {array} response_models.RefundResponse
// @Failure 404 {object} utils.APIResponse
// @Router /payments/{payment_id}/refunds [get]
func (r *RefundController) ListRefunds(c *gin.Context) {
	refunds, err := r.refundService.ListRefunds(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewRefundListResponse(refunds))
}
