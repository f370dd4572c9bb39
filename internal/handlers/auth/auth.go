package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	pkgauth "github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/utils"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, req dto.RegisterRequestDTO) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	AuthenticateAdmin(ctx context.Context, email, password string) (*domain.Admin, error)
	GenerateToken(subjectID int, name string, isAdmin bool) (string, error)
	Logout(ctx context.Context, principal pkgauth.Principal) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a customer account and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		201		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Email already registered"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateEmail):
			utils.RespondWithError(w, http.StatusConflict, "Email already registered")
		default:
			utils.RespondWithInternalError(w, err)
		}
		return
	}
	h.respondWithToken(w, http.StatusCreated, user.ID, user.Name, false)
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with a customer account and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid email or password"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLogin(w, r)
	if !ok {
		return
	}
	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, user.ID, user.Name, false)
}

// AdminLogin godoc
//
//	@Summary		Authenticate administrator
//	@Description	Log in with an admin account and get a JWT token carrying the admin flag
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid email or password"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/admin-login [post]
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLogin(w, r)
	if !ok {
		return
	}
	admin, err := h.authService.AuthenticateAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, admin.ID, admin.Name, true)
}

// Logout godoc
//
//	@Summary		Revoke the current token
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := pkgauth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.authService.Logout(r.Context(), principal); err != nil {
		utils.RespondWithInternalError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Logged out"})
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (dto.LoginRequestDTO, bool) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return req, false
	}
	return req, true
}

func respondAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	utils.RespondWithInternalError(w, err)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, code, id int, name string, isAdmin bool) {
	token, err := h.authService.GenerateToken(id, name, isAdmin)
	if err != nil {
		zap.L().Error("can't generate token", zap.Int("subjectID", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, code, dto.AuthResponseDTO{
		Token: token,
		ID:    id,
		Name:  name,
	})
}
