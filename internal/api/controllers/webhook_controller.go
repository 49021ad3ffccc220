package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payflow/internal/models/request_models"
	"payflow/internal/models/response_models"
	"payflow/internal/services"
	"payflow/pkg/utils"
)

type WebhookController struct {
	webhookService services.WebhookService
	log            *zap.Logger
}

func NewWebhookController(webhookService services.WebhookService, log *zap.Logger) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		log:            log.With(zap.String("component", "webhook_controller")),
	}
}

// HandlePaymentWebhook godoc
// @Summary Receive gateway payment events
// @Description Always acknowledges parsed events so the gateway stops retrying
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} response_models.WebhookAck
// @Failure 400 {object} utils.APIResponse
// @Router /webhooks/payment [post]
func (w *WebhookController) HandlePaymentWebhook(c *gin.Context) {
	var payload request_models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if _, err := w.webhookService.HandleEvent(c.Request.Context(), payload); err != nil {
		w.log.Error("webhook handling failed",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.String("event_type", payload.EventType),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, response_models.WebhookAck{Status: "webhook processed"})
}
