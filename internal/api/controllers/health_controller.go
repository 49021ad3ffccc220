package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"payflow/internal/models/response_models"
)

const ServiceName = "payment-processing"

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

func (h *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response_models.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}
