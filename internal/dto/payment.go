package dto

import "github.com/GlebRadaev/afriart/internal/domain"

type STKPushRequestDTO struct {
	PhoneNumber string `json:"phoneNumber" example:"0712345678"`
	OrderID     int    `json:"orderId" example:"10"`
}

type STKPushResponseDTO struct {
	Message           string `json:"message" example:"STK push sent"`
	CheckoutRequestID string `json:"checkoutRequestId" example:"ws_CO_191220191020363925"`
	MerchantRequestID string `json:"merchantRequestId" example:"29115-34620561-1"`
	CustomerMessage   string `json:"customerMessage,omitempty"`
}

type PaymentStatusResponseDTO struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	Status            string `json:"status" example:"completed"`
	ResultCode        *int   `json:"resultCode,omitempty" example:"0"`
	ResultDesc        string `json:"resultDesc,omitempty"`
	ReceiptNumber     string `json:"receiptNumber,omitempty" example:"NLJ7RT61SV"`
	OrderType         string `json:"orderType" example:"exhibition"`
	OrderID           int    `json:"orderId" example:"10"`
}

// CallbackAckDTO is the acknowledgement body Daraja expects from a callback URL.
type CallbackAckDTO struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func NewPaymentStatusResponse(t domain.Transaction) PaymentStatusResponseDTO {
	return PaymentStatusResponseDTO{
		CheckoutRequestID: t.CheckoutRequestID,
		Status:            t.Status,
		ResultCode:        t.ResultCode,
		ResultDesc:        t.ResultDesc,
		ReceiptNumber:     t.ReceiptNumber,
		OrderType:         t.OrderType,
		OrderID:           t.OrderID,
	}
}
