package dto

type CustomerPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Document string `json:"document"`
}

// CreatePaymentRequest is one checkout attempt. Amount zero is a valid
// open-amount code, so the field is bounded below rather than required.
type CreatePaymentRequest struct {
	Amount           float64         `json:"amount" binding:"gte=0"`
	Description      string          `json:"description"`
	OrderID          string          `json:"order_id" binding:"required"`
	Customer         CustomerPayload `json:"customer" binding:"required"`
	ExpiresInMinutes int             `json:"expires_in_minutes" binding:"gte=0,lte=10080"`
}

type ValidateRequest struct {
	Code string `json:"code"`
}
