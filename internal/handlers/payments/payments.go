package payments

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/internal/service/paymentservice"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/mpesa"
	"github.com/GlebRadaev/afriart/pkg/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Service interface {
	InitiateCheckout(ctx context.Context, userID, orderID int, phone string) (*paymentservice.Checkout, error)
	HandleCallback(ctx context.Context, cb mpesa.STKCallback) (*domain.Transaction, error)
	CheckStatus(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error)
}

type PaymentHandler struct {
	paymentService Service
	callbackToken  string
}

// New builds the payment handlers. A non-empty callbackToken must be present
// as the token query parameter of every callback.
func New(paymentService Service, callbackToken string) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		callbackToken:  callbackToken,
	}
}

// STKPush godoc
//
//	@Summary		Pay for an order with M-Pesa
//	@Description	Sends an STK push to the phone. The amount is taken from the order.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.STKPushRequestDTO	true	"Order and phone number"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.STKPushResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid phone number"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Order belongs to another user"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order is not awaiting payment"
//	@Failure		502	{object}	utils.Response	"Payment provider error"
//	@Failure		504	{object}	utils.Response	"Payment provider timed out"
//	@Router			/mpesa/stk-push [post]
func (h *PaymentHandler) STKPush(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req dto.STKPushRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PhoneNumber == "" || req.OrderID < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "phoneNumber and orderId are required")
		return
	}

	checkout, err := h.paymentService.InitiateCheckout(r.Context(), principal.SubjectID, req.OrderID, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, mpesa.ErrInvalidPhone):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid phone number")
		case errors.Is(err, domain.ErrValidation):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, domain.ErrForbidden):
			utils.RespondWithError(w, http.StatusForbidden, "Order belongs to another user")
		case errors.Is(err, domain.ErrOrderNotPending):
			utils.RespondWithError(w, http.StatusConflict, "Order is not awaiting payment")
		default:
			respondUpstreamError(w, err, "Failed to initiate payment")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.STKPushResponseDTO{
		Message:           "STK push sent",
		CheckoutRequestID: checkout.Transaction.CheckoutRequestID,
		MerchantRequestID: checkout.Transaction.MerchantRequestID,
		CustomerMessage:   checkout.CustomerMessage,
	})
}

// Callback godoc
//
//	@Summary		M-Pesa STK callback
//	@Description	Called by Safaricom with the final result of an STK push.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			token	query		string					false	"Callback secret"
//	@Param			request	body		mpesa.CallbackEnvelope	true	"Daraja callback"
//	@Success		200		{object}	dto.CallbackAckDTO
//	@Failure		400		{object}	utils.Response	"Invalid callback payload"
//	@Failure		401		{object}	utils.Response	"Invalid callback token"
//	@Failure		404		{object}	utils.Response	"Unknown checkout request"
//	@Failure		409		{object}	utils.Response	"Payment result not confirmed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Failure		502		{object}	utils.Response	"Payment provider error"
//	@Failure		504		{object}	utils.Response	"Payment provider timed out"
//	@Router			/mpesa/callback [post]
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.validCallbackToken(r.URL.Query().Get("token")) {
		zap.L().Warn("mpesa callback with invalid token", zap.String("remoteAddr", r.RemoteAddr))
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid callback token")
		return
	}

	var envelope mpesa.CallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		zap.L().Error("malformed mpesa callback", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid callback payload")
		return
	}
	cb := envelope.Body.STKCallback
	if cb.CheckoutRequestID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid callback payload")
		return
	}

	_, err := h.paymentService.HandleCallback(r.Context(), cb)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownCheckout):
			utils.RespondWithDetails(w, http.StatusNotFound, "Unknown checkout request", cb.CheckoutRequestID)
		case errors.Is(err, paymentservice.ErrPaymentUnconfirmed):
			utils.RespondWithDetails(w, http.StatusConflict, "Payment result not confirmed", cb.CheckoutRequestID)
		default:
			respondUpstreamError(w, err, "Failed to confirm payment")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CallbackAckDTO{ResultCode: 0, ResultDesc: "Accepted"})
}

func (h *PaymentHandler) validCallbackToken(token string) bool {
	if h.callbackToken == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.callbackToken)) == 1
}

// Status godoc
//
//	@Summary		Payment status
//	@Description	Returns the stored status, asking the provider while the payment is pending.
//	@Tags			Payments
//	@Produce		json
//	@Param			checkoutRequestId	path		string	true	"Checkout request ID"
//	@Success		200					{object}	dto.PaymentStatusResponseDTO
//	@Failure		404					{object}	utils.Response	"Transaction not found"
//	@Failure		502					{object}	utils.Response	"Payment provider error"
//	@Failure		504					{object}	utils.Response	"Payment provider timed out"
//	@Router			/mpesa/status/{checkoutRequestId} [get]
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	checkoutRequestID := chi.URLParam(r, "checkoutRequestId")
	if checkoutRequestID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "checkoutRequestId is required")
		return
	}

	tx, err := h.paymentService.CheckStatus(r.Context(), checkoutRequestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnknownCheckout) {
			utils.RespondWithError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		respondUpstreamError(w, err, "Failed to query payment status")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPaymentStatusResponse(*tx))
}

// respondUpstreamError reports provider failures with the provider's own
// message attached.
func respondUpstreamError(w http.ResponseWriter, err error, message string) {
	var details string
	var providerErr *mpesa.ProviderError
	if errors.As(err, &providerErr) {
		details = providerErr.Message
	}

	switch {
	case errors.Is(err, paymentservice.ErrPaymentTimeout):
		utils.RespondWithDetails(w, http.StatusGatewayTimeout, "Payment provider timed out", details)
	case errors.Is(err, paymentservice.ErrPaymentInitiation), errors.Is(err, paymentservice.ErrStatusQuery):
		if details == "" {
			details = err.Error()
		}
		utils.RespondWithDetails(w, http.StatusBadGateway, message, details)
	default:
		utils.RespondWithInternalError(w, err)
	}
}
