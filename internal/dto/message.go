package dto

import "github.com/GlebRadaev/afriart/internal/domain"

type ContactRequestDTO struct {
	Name    string `json:"name" example:"Otieno"`
	Email   string `json:"email" example:"otieno@example.com"`
	Phone   string `json:"phone,omitempty" example:"0712345678"`
	Message string `json:"message" example:"Is the gallery open on Sunday?"`
	Source  string `json:"source,omitempty" example:"contact_form"`
}

type ContactResponseDTO struct {
	Message   string `json:"message" example:"Message sent successfully"`
	MessageID int    `json:"messageId" example:"1"`
}

type MessageStatusRequestDTO struct {
	Status string `json:"status" example:"read"`
}

type MessageResponseDTO struct {
	ID      int    `json:"id" example:"1"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
	Source  string `json:"source" example:"contact_form"`
	Status  string `json:"status" example:"new"`
	Date    string `json:"date" example:"2024-05-01T10:00:00Z"`
}

func NewMessageResponse(m domain.ContactMessage) MessageResponseDTO {
	return MessageResponseDTO{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		Message: m.Message,
		Source:  m.Source,
		Status:  m.Status,
		Date:    formatTime(m.CreatedAt),
	}
}
