package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/models/response_models"
	"payflow/internal/services"
	"payflow/pkg/middleware"
	"payflow/pkg/utils"
)

type PaymentMethodController struct {
	methodService services.PaymentMethodService
}

func NewPaymentMethodController(methodService services.PaymentMethodService) *PaymentMethodController {
	return &PaymentMethodController{
		methodService: methodService,
	}
}

// RegisterPaymentMethod godoc
// @Summary Store a tokenized card for a user
// @Description The card number is never persisted, only its keyed digest and last four digits
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentMethodRequest true "Payment method payload"
// @Success 200 {object} response_models.PaymentMethodResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payment-methods [post]
func (pm *PaymentMethodController) RegisterPaymentMethod(c *gin.Context) {
	var request request_models.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !middleware.AuthorizeUser(c, request.UserID) {
		return
	}

	method, err := pm.methodService.Register(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewPaymentMethodResponse(method))
}

func (pm *PaymentMethodController) ListPaymentMethods(c *gin.Context) {
	userID := c.Param("user_id")
	if !middleware.AuthorizeUser(c, userID) {
		return
	}

	methods, err := pm.methodService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewPaymentMethodListResponse(methods))
}

func (pm *PaymentMethodController) DeactivatePaymentMethod(c *gin.Context) {
	existing, ok := pm.ownedMethod(c)
	if !ok {
		return
	}

	method, err := pm.methodService.Deactivate(c.Request.Context(), existing.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewPaymentMethodResponse(method))
}

func (pm *PaymentMethodController) SetDefaultPaymentMethod(c *gin.Context) {
	existing, ok := pm.ownedMethod(c)
	if !ok {
		return
	}

	method, err := pm.methodService.SetDefault(c.Request.Context(), existing.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondOK(c, response_models.NewPaymentMethodResponse(method))
}

// ownedMethod loads the method named by the :id param and checks the caller
// owns it. It writes the error response itself when it returns false.
func (pm *PaymentMethodController) ownedMethod(c *gin.Context) (*db_models.PaymentMethod, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment method id")
		return nil, false
	}

	method, err := pm.methodService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return nil, false
	}
	if !middleware.AuthorizeUser(c, method.UserID) {
		return nil, false
	}
	return method, true
}
