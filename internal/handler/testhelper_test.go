package handler

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/igorfd2009/cookitie-pix/internal/pix"
	"github.com/igorfd2009/cookitie-pix/internal/qrcode"
	"github.com/igorfd2009/cookitie-pix/internal/service"
	"github.com/igorfd2009/cookitie-pix/internal/storage"
)

func testRouter(t *testing.T) (*gin.Engine, *service.PaymentService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profile := pix.MerchantProfile{
		PixKey:           "+5511998008397",
		MerchantName:     "Cookitie JEPP",
		MerchantCity:     "Sao Paulo",
		MerchantCategory: "5812",
		CurrencyCode:     "986",
		CountryCode:      "BR",
	}
	qr := qrcode.NewGenerator("http://127.0.0.1:1", 240, 50*time.Millisecond)

	svc, err := service.NewPaymentService(context.Background(), storage.NewMemoryStore(), profile, qr, service.DefaultExpiry)
	require.NoError(t, err)

	router := gin.New()
	paymentHandler := NewPaymentHandler(svc)
	validateHandler := NewValidateHandler()

	api := router.Group("/api/v1")
	api.POST("/payments", paymentHandler.Create)
	api.GET("/payments", paymentHandler.List)
	api.GET("/payments/stats", paymentHandler.Stats)
	api.GET("/payments/:id", paymentHandler.Get)
	api.POST("/payments/:id/confirm", paymentHandler.Confirm)
	api.POST("/payments/:id/cancel", paymentHandler.Cancel)
	api.POST("/pix/validate", validateHandler.Validate)

	return router, svc
}
