package exhibitions

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
	List(ctx context.Context) ([]domain.Exhibition, error)
	Get(ctx context.Context, id int) (*domain.Exhibition, error)
	Create(ctx context.Context, req dto.ExhibitionRequestDTO) (*domain.Exhibition, error)
	Update(ctx context.Context, id int, req dto.ExhibitionRequestDTO) (*domain.Exhibition, error)
	Delete(ctx context.Context, id int) error
}

type ExhibitionHandler struct {
	exhibitionService Service
}

func New(exhibitionService Service) *ExhibitionHandler {
	return &ExhibitionHandler{
		exhibitionService: exhibitionService,
	}
}

// List godoc
//
//	@Summary		List exhibitions
//	@Description	Return every exhibition ordered by start date
//	@Tags			Exhibitions
//	@Produce		json
//	@Success		200	{array}		dto.ExhibitionResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/exhibitions [get]
func (h *ExhibitionHandler) List(w http.ResponseWriter, r *http.Request) {
	exhibitions, err := h.exhibitionService.List(r.Context())
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	resp := make([]dto.ExhibitionResponseDTO, 0, len(exhibitions))
	for _, a := range exhibitions {
		resp = append(resp, dto.NewExhibitionResponse(a))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Get godoc
//
//	@Summary		Get an exhibition
//	@Tags			Exhibitions
//	@Produce		json
//	@Param			id	path		int	true	"Exhibition ID"
//	@Success		200	{object}	dto.ExhibitionResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid exhibition ID"
//	@Failure		404	{object}	utils.Response	"Exhibition not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/exhibitions/{id} [get]
func (h *ExhibitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid exhibition ID")
		return
	}
	exhibition, err := h.exhibitionService.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewExhibitionResponse(*exhibition))
}

// Create godoc
//
//	@Summary		Create an exhibition
//	@Description	availableSlots defaults to totalSlots, dates use YYYY-MM-DD
//	@Tags			Exhibitions
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ExhibitionRequestDTO	true	"Exhibition"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.CreatedResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/exhibitions [post]
func (h *ExhibitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ExhibitionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	exhibition, err := h.exhibitionService.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.CreatedResponseDTO{
		Message: "Exhibition created successfully",
		ID:      exhibition.ID,
	})
}

// Update godoc
//
//	@Summary		Update an exhibition
//	@Description	Only supplied fields are changed
//	@Tags			Exhibitions
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Exhibition ID"
//	@Param			request	body	dto.ExhibitionRequestDTO	true	"Fields to change"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ExhibitionResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		404	{object}	utils.Response	"Exhibition not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/exhibitions/{id} [put]
func (h *ExhibitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid exhibition ID")
		return
	}
	var req dto.ExhibitionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	exhibition, err := h.exhibitionService.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewExhibitionResponse(*exhibition))
}

// Delete godoc
//
//	@Summary		Delete an exhibition
//	@Tags			Exhibitions
//	@Produce		json
//	@Param			id	path	int	true	"Exhibition ID"
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		404	{object}	utils.Response	"Exhibition not found"
//	@Failure		409	{object}	utils.Response	"Exhibition has tickets"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/exhibitions/{id} [delete]
func (h *ExhibitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid exhibition ID")
		return
	}
	if err := h.exhibitionService.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Exhibition deleted successfully"})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Exhibition not found")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidStatus):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInUse):
		utils.RespondWithError(w, http.StatusConflict, "Exhibition has tickets")
	default:
		utils.RespondWithInternalError(w, err)
	}
}
