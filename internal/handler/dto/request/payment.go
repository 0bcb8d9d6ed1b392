package request

import "encoding/json"

// ConfirmPaymentRequest mirrors the checkout success callback of the
// payment processor: the ids plus the signature computed over them, and
// optionally the raw order object when the caller does not know the
// booking id.
type ConfirmPaymentRequest struct {
	BookingID *string         `json:"booking_id,omitempty"`
	OrderID   string          `json:"order_id" binding:"required"`
	PaymentID string          `json:"payment_id" binding:"required"`
	Signature string          `json:"signature" binding:"required"`
	Order     json.RawMessage `json:"order,omitempty"`
}
