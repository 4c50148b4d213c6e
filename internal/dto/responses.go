package dto

import (
	"time"

	"github.com/igorfd2009/cookitie-pix/internal/model"
	"github.com/igorfd2009/cookitie-pix/internal/pix"
)

type CreatePaymentResponse struct {
	Success       bool      `json:"success"`
	TransactionID string    `json:"transaction_id"`
	PixCode       string    `json:"pix_code"`
	QRCodeBase64  string    `json:"qr_code_base64"`
	QRCodeURL     string    `json:"qr_code_url"`
	Amount        float64   `json:"amount"`
	ExpiresAt     time.Time `json:"expires_at"`
	Status        string    `json:"status"`
}

type PaymentResponse struct {
	TransactionID string         `json:"transaction_id"`
	PixCode       string         `json:"pix_code"`
	Amount        float64        `json:"amount"`
	Description   string         `json:"description,omitempty"`
	OrderID       string         `json:"order_id"`
	Customer      model.Customer `json:"customer"`
	Status        string         `json:"status"`
	ExpiresAt     time.Time      `json:"expires_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

func NewPaymentResponse(rec *model.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		TransactionID: rec.TransactionID,
		PixCode:       rec.Payload,
		Amount:        rec.Amount.InexactFloat64(),
		Description:   rec.Description,
		OrderID:       rec.OrderID,
		Customer:      rec.Customer,
		Status:        string(rec.Status),
		ExpiresAt:     rec.ExpiresAt,
		CreatedAt:     rec.CreatedAt,
	}
}

type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int               `json:"total"`
}

type ValidationResponse struct {
	Valid       bool                 `json:"valid"`
	Fields      map[string]pix.Field `json:"fields"`
	Errors      []string             `json:"errors,omitempty"`
	ProvidedCRC string               `json:"provided_crc,omitempty"`
	ExpectedCRC string               `json:"expected_crc,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
