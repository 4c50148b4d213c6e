package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igorfd2009/cookitie-pix/internal/dto"
	"github.com/igorfd2009/cookitie-pix/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	resp, err := h.svc.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	rec := h.svc.GetPayment(c.Request.Context(), c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "transaction not found"})
		return
	}

	c.JSON(http.StatusOK, dto.NewPaymentResponse(rec))
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	rec, ok := h.svc.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "transaction not found"})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, dto.NewPaymentResponse(rec))
		return
	}

	c.JSON(http.StatusOK, dto.NewPaymentResponse(rec))
}

func (h *PaymentHandler) Cancel(c *gin.Context) {
	rec, ok := h.svc.CancelPayment(c.Request.Context(), c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "transaction not found"})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, dto.NewPaymentResponse(rec))
		return
	}

	c.JSON(http.StatusOK, dto.NewPaymentResponse(rec))
}

func (h *PaymentHandler) List(c *gin.Context) {
	records := h.svc.ListPayments(c.Request.Context())

	payments := make([]dto.PaymentResponse, len(records))
	for i := range records {
		payments[i] = dto.NewPaymentResponse(&records[i])
	}

	c.JSON(http.StatusOK, dto.ListPaymentsResponse{
		Payments: payments,
		Total:    len(payments),
	})
}

func (h *PaymentHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats(c.Request.Context()))
}
