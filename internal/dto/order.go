package dto

import (
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
)

type ArtworkOrderRequestDTO struct {
	ArtworkID int `json:"artworkId" example:"1"`
}

type ExhibitionBookingRequestDTO struct {
	ExhibitionID int `json:"exhibitionId" example:"1"`
	Slots        int `json:"slots" example:"2"`
}

type OrderResponseDTO struct {
	ID            int     `json:"id" example:"10"`
	UserID        int     `json:"userId" example:"3"`
	ItemType      string  `json:"itemType" example:"exhibition"`
	ItemID        int     `json:"itemId" example:"1"`
	Amount        float64 `json:"totalAmount" example:"1000"`
	Slots         int     `json:"slots" example:"2"`
	PaymentMethod string  `json:"paymentMethod" example:"mpesa"`
	PaymentStatus string  `json:"paymentStatus" example:"pending"`
	Status        string  `json:"status" example:"pending"`
	OrderDate     string  `json:"orderDate" example:"2024-05-01T10:00:00Z"`
}

type TicketResponseDTO struct {
	ID           int    `json:"id" example:"1"`
	OrderID      int    `json:"orderId" example:"10"`
	ExhibitionID int    `json:"exhibitionId" example:"1"`
	TicketCode   string `json:"ticketCode" example:"TKT-123456789031"`
	Slots        int    `json:"slots" example:"2"`
	Status       string `json:"status" example:"active"`
	CreatedAt    string `json:"createdAt" example:"2024-05-01T10:00:00Z"`
}

func NewOrderResponse(o domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		ItemType:      o.ItemType,
		ItemID:        o.ItemID,
		Amount:        o.Amount.InexactFloat64(),
		Slots:         o.Slots,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Status:        o.Status,
		OrderDate:     formatTime(o.CreatedAt),
	}
}

func NewTicketResponse(t domain.Ticket) TicketResponseDTO {
	return TicketResponseDTO{
		ID:           t.ID,
		OrderID:      t.OrderID,
		ExhibitionID: t.ExhibitionID,
		TicketCode:   t.TicketCode,
		Slots:        t.Slots,
		Status:       t.Status,
		CreatedAt:    formatTime(t.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
