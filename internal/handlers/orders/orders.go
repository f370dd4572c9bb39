package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	CreateArtworkOrder(ctx context.Context, userID, artworkID int) (*domain.Order, error)
	CreateExhibitionBooking(ctx context.Context, userID, exhibitionID, slots int) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	ListUserTickets(ctx context.Context, userID int) ([]domain.Ticket, error)
	ListAllTickets(ctx context.Context) ([]domain.Ticket, error)
	VerifyTicket(ctx context.Context, code string) (*domain.Ticket, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateArtworkOrder godoc
//
//	@Summary		Order an artwork
//	@Description	Create a pending order for an available artwork. Pay for it with /mpesa/stk-push.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ArtworkOrderRequestDTO	true	"Artwork to buy"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Artwork not found"
//	@Failure		409	{object}	utils.Response	"Artwork is not available"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/orders/artwork [post]
func (h *OrderHandler) CreateArtworkOrder(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.ArtworkOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ArtworkID < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.CreateArtworkOrder(r.Context(), principal.SubjectID, req.ArtworkID)
	if err != nil {
		respondOrderError(w, err, "Artwork not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewOrderResponse(*order))
}

// CreateExhibitionBooking godoc
//
//	@Summary		Book exhibition tickets
//	@Description	Create a pending booking. Slots are only taken once the payment completes.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ExhibitionBookingRequestDTO	true	"Exhibition and number of slots"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Exhibition not found"
//	@Failure		409	{object}	utils.Response	"Not enough slots available"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/orders/exhibition [post]
func (h *OrderHandler) CreateExhibitionBooking(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.ExhibitionBookingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExhibitionID < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.CreateExhibitionBooking(r.Context(), principal.SubjectID, req.ExhibitionID, req.Slots)
	if err != nil {
		respondOrderError(w, err, "Exhibition not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewOrderResponse(*order))
}

// ListMine godoc
//
//	@Summary		Get orders list for user
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/orders [get]
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	orders, err := h.orderService.ListUserOrders(r.Context(), principal.SubjectID)
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orderList(orders))
}

// ListAll godoc
//
//	@Summary		Get all orders
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/admin/orders [get]
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAllOrders(r.Context())
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orderList(orders))
}

// ListTickets godoc
//
//	@Summary		Get tickets of the user
//	@Tags			Tickets
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.TicketResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/tickets [get]
func (h *OrderHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	tickets, err := h.orderService.ListUserTickets(r.Context(), principal.SubjectID)
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ticketList(tickets))
}

// ListAllTickets godoc
//
//	@Summary		Get all issued tickets
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.TicketResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/admin/tickets [get]
func (h *OrderHandler) ListAllTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.orderService.ListAllTickets(r.Context())
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ticketList(tickets))
}

func ticketList(tickets []domain.Ticket) []dto.TicketResponseDTO {
	response := make([]dto.TicketResponseDTO, 0, len(tickets))
	for _, t := range tickets {
		response = append(response, dto.NewTicketResponse(t))
	}
	return response
}

// VerifyTicket godoc
//
//	@Summary		Verify a ticket code at the door
//	@Tags			Tickets
//	@Produce		json
//	@Param			code	path	string	true	"Ticket code"	example(TKT-123456789031)
//	@Security		BearerAuth
//	@Success		200	{object}	dto.TicketResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		404	{object}	utils.Response	"Ticket not found"
//	@Failure		422	{object}	utils.Response	"Invalid ticket code"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/tickets/verify/{code} [get]
func (h *OrderHandler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.orderService.VerifyTicket(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedTicketCode):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid ticket code")
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Ticket not found")
		default:
			utils.RespondWithInternalError(w, err)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTicketResponse(*ticket))
}

func respondOrderError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrArtworkUnavailable),
		errors.Is(err, domain.ErrExhibitionClosed),
		errors.Is(err, domain.ErrInsufficientSlots):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithInternalError(w, err)
	}
}

func orderList(orders []domain.Order) []dto.OrderResponseDTO {
	response := make([]dto.OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		response = append(response, dto.NewOrderResponse(order))
	}
	return response
}
