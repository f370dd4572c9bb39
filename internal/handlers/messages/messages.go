package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, req dto.ContactRequestDTO) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type MessageHandler struct {
	messageService Service
}

func New(messageService Service) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// Submit godoc
//
//	@Summary		Send a contact message
//	@Tags			Messages
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ContactRequestDTO	true	"Message"
//	@Success		201		{object}	dto.ContactResponseDTO
//	@Failure		400		{object}	utils.Response	"Missing required fields"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/contact [post]
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg, err := h.messageService.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithInternalError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.ContactResponseDTO{
		Message:   "Message sent successfully",
		MessageID: msg.ID,
	})
}

// List godoc
//
//	@Summary		List contact messages
//	@Tags			Messages
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.MessageResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/messages [get]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.List(r.Context())
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	resp := make([]dto.MessageResponseDTO, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, dto.NewMessageResponse(m))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// UpdateStatus godoc
//
//	@Summary		Change a message status
//	@Description	status is one of new, read, replied
//	@Tags			Messages
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int							true	"Message ID"
//	@Param			request	body	dto.MessageStatusRequestDTO	true	"New status"
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response
//	@Failure		400	{object}	utils.Response	"Invalid status"
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		404	{object}	utils.Response	"Message not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/messages/{id} [put]
func (h *MessageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}
	var req dto.MessageStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	err = h.messageService.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Message status updated"})
	case errors.Is(err, domain.ErrInvalidStatus):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Message not found")
	default:
		utils.RespondWithInternalError(w, err)
	}
}
