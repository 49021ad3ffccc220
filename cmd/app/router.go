package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payflow/internal/api/controllers"
	"payflow/internal/config"
	"payflow/pkg/middleware"
	"payflow/pkg/utils"
)

type Controllers struct {
	Health        *controllers.HealthController
	Payment       *controllers.PaymentController
	Refund        *controllers.RefundController
	PaymentMethod *controllers.PaymentMethodController
	Webhook       *controllers.WebhookController
}

func ProvideRouter(
	cfg *config.Config,
	log *zap.Logger,
	health *controllers.HealthController,
	payment *controllers.PaymentController,
	refund *controllers.RefundController,
	paymentMethod *controllers.PaymentMethodController,
	webhook *controllers.WebhookController) *gin.Engine {

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(requestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, cfg.JWTSecret, Controllers{
		Health:        health,
		Payment:       payment,
		Refund:        refund,
		PaymentMethod: paymentMethod,
		Webhook:       webhook,
	})

	return r
}

func RegisterRoutes(r *gin.Engine, jwtSecret string, c Controllers) {
	r.GET("/health", c.Health.Health)

	paymentsGroup := r.Group("/payments")
	paymentsGroup.POST("", c.Payment.CreatePayment)
	paymentsGroup.GET("", c.Payment.ListPayments)
	paymentsGroup.GET("/:payment_id", c.Payment.GetPayment)
	paymentsGroup.GET("/:payment_id/refunds", c.Refund.ListRefunds)

	refundsGroup := r.Group("/refunds")
	refundsGroup.POST("", c.Refund.CreateRefund)
	refundsGroup.GET("/:refund_id", c.Refund.GetRefund)

	auth := middleware.JWTAuthMiddleware(jwtSecret)
	methodsGroup := r.Group("/payment-methods", auth)
	methodsGroup.POST("", c.PaymentMethod.RegisterPaymentMethod)
	methodsGroup.DELETE("/:id", c.PaymentMethod.DeactivatePaymentMethod)
	methodsGroup.PUT("/:id/default", c.PaymentMethod.SetDefaultPaymentMethod)
	r.GET("/users/:user_id/payment-methods", auth, c.PaymentMethod.ListPaymentMethods)

	r.POST("/webhooks/payment", c.Webhook.HandlePaymentWebhook)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(utils.LoggerKey, log.With(zap.String("trace_id", c.GetString("trace_id"))))
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("trace_id", c.GetString("trace_id")))
	}
}
