package artworks

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
	List(ctx context.Context) ([]domain.Artwork, error)
	Get(ctx context.Context, id int) (*domain.Artwork, error)
	Create(ctx context.Context, req dto.ArtworkRequestDTO) (*domain.Artwork, error)
	Update(ctx context.Context, id int, req dto.ArtworkRequestDTO) (*domain.Artwork, error)
	Delete(ctx context.Context, id int) error
}

type ArtworkHandler struct {
	artworkService Service
}

func New(artworkService Service) *ArtworkHandler {
	return &ArtworkHandler{
		artworkService: artworkService,
	}
}

// List godoc
//
//	@Summary		List artworks
//	@Description	Return every artwork, newest first
//	@Tags			Artworks
//	@Produce		json
//	@Success		200	{array}		dto.ArtworkResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/artworks [get]
func (h *ArtworkHandler) List(w http.ResponseWriter, r *http.Request) {
	artworks, err := h.artworkService.List(r.Context())
	if err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	resp := make([]dto.ArtworkResponseDTO, 0, len(artworks))
	for _, a := range artworks {
		resp = append(resp, dto.NewArtworkResponse(a))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Get godoc
//
//	@Summary		Get an artwork
//	@Tags			Artworks
//	@Produce		json
//	@Param			id	path		int	true	"Artwork ID"
//	@Success		200	{object}	dto.ArtworkResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid artwork ID"
//	@Failure		404	{object}	utils.Response	"Artwork not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/artworks/{id} [get]
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid artwork ID")
		return
	}
	artwork, err := h.artworkService.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewArtworkResponse(*artwork))
}

// Create godoc
//
//	@Summary		Create an artwork
//	@Description	imageUrl may carry a base64 data URI, it is stored under /static/uploads
//	@Tags			Artworks
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ArtworkRequestDTO	true	"Artwork"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.CreatedResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/artworks [post]
func (h *ArtworkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ArtworkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	artwork, err := h.artworkService.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.CreatedResponseDTO{
		Message: "Artwork created successfully",
		ID:      artwork.ID,
	})
}

// Update godoc
//
//	@Summary		Update an artwork
//	@Description	Only supplied fields are changed
//	@Tags			Artworks
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Artwork ID"
//	@Param			request	body	dto.ArtworkRequestDTO	true	"Fields to change"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ArtworkResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		404	{object}	utils.Response	"Artwork not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/artworks/{id} [put]
func (h *ArtworkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid artwork ID")
		return
	}
	var req dto.ArtworkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	artwork, err := h.artworkService.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewArtworkResponse(*artwork))
}

// Delete godoc
//
//	@Summary		Delete an artwork
//	@Tags			Artworks
//	@Produce		json
//	@Param			id	path	int	true	"Artwork ID"
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		404	{object}	utils.Response	"Artwork not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/artworks/{id} [delete]
func (h *ArtworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid artwork ID")
		return
	}
	if err := h.artworkService.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Artwork deleted successfully"})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Artwork not found")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidStatus):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithInternalError(w, err)
	}
}
