package dto

import (
	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// ArtworkRequestDTO is used for both create and update. On update only the
// non-nil fields are applied.
type ArtworkRequestDTO struct {
	Title       *string          `json:"title" example:"Maasai Mara at Dusk"`
	Artist      *string          `json:"artist" example:"Achieng Odhiambo"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number" example:"45000"`
	ImageURL    *string          `json:"imageUrl"`
	Dimensions  *string          `json:"dimensions" example:"60x90 cm"`
	Medium      *string          `json:"medium" example:"Oil on canvas"`
	Year        *int             `json:"year" example:"2023"`
	Status      *string          `json:"status" example:"available"`
}

type ArtworkResponseDTO struct {
	ID          int     `json:"id" example:"1"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Description string  `json:"description"`
	Price       float64 `json:"price" example:"45000"`
	ImageURL    string  `json:"imageUrl"`
	Dimensions  string  `json:"dimensions"`
	Medium      string  `json:"medium"`
	Year        *int    `json:"year,omitempty"`
	Status      string  `json:"status" example:"available"`
	CreatedAt   string  `json:"createdAt" example:"2024-05-01T10:00:00Z"`
}

type ExhibitionRequestDTO struct {
	Title          *string          `json:"title" example:"Contemporary East Africa"`
	Description    *string          `json:"description"`
	Location       *string          `json:"location" example:"Nairobi National Museum"`
	StartDate      *string          `json:"startDate" example:"2024-07-01"`
	EndDate        *string          `json:"endDate" example:"2024-07-31"`
	TicketPrice    *decimal.Decimal `json:"ticketPrice" swaggertype:"number" example:"500"`
	ImageURL       *string          `json:"imageUrl"`
	TotalSlots     *int             `json:"totalSlots" example:"100"`
	AvailableSlots *int             `json:"availableSlots" example:"100"`
	Status         *string          `json:"status" example:"upcoming"`
}

type ExhibitionResponseDTO struct {
	ID             int     `json:"id" example:"1"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Location       string  `json:"location"`
	StartDate      string  `json:"startDate" example:"2024-07-01"`
	EndDate        string  `json:"endDate" example:"2024-07-31"`
	TicketPrice    float64 `json:"ticketPrice" example:"500"`
	ImageURL       string  `json:"imageUrl"`
	TotalSlots     int     `json:"totalSlots" example:"100"`
	AvailableSlots int     `json:"availableSlots" example:"98"`
	Status         string  `json:"status" example:"upcoming"`
	CreatedAt      string  `json:"createdAt" example:"2024-05-01T10:00:00Z"`
}

type CreatedResponseDTO struct {
	Message string `json:"message" example:"Artwork created successfully"`
	ID      int    `json:"id" example:"1"`
}

func NewArtworkResponse(a domain.Artwork) ArtworkResponseDTO {
	return ArtworkResponseDTO{
		ID:          a.ID,
		Title:       a.Title,
		Artist:      a.Artist,
		Description: a.Description,
		Price:       a.Price.InexactFloat64(),
		ImageURL:    a.ImageURL,
		Dimensions:  a.Dimensions,
		Medium:      a.Medium,
		Year:        a.Year,
		Status:      a.Status,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

func NewExhibitionResponse(e domain.Exhibition) ExhibitionResponseDTO {
	return ExhibitionResponseDTO{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Location:       e.Location,
		StartDate:      e.StartDate.Format(DateLayout),
		EndDate:        e.EndDate.Format(DateLayout),
		TicketPrice:    e.TicketPrice.InexactFloat64(),
		ImageURL:       e.ImageURL,
		TotalSlots:     e.TotalSlots,
		AvailableSlots: e.AvailableSlots,
		Status:         e.Status,
		CreatedAt:      formatTime(e.CreatedAt),
	}
}
