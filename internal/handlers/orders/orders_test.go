package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*OrderHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

var customer = auth.Principal{SubjectID: 1, Name: "Amina"}

func userCtx() context.Context {
	return auth.WithPrincipal(context.Background(), customer)
}

func pendingOrder(itemType string, amount string, slots int) *domain.Order {
	return &domain.Order{
		ID:            10,
		UserID:        1,
		ItemType:      itemType,
		ItemID:        2,
		Amount:        decimal.RequireFromString(amount),
		Slots:         slots,
		PaymentMethod: domain.PaymentMethodMpesa,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.OrderPending,
		CreatedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateArtworkOrderHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Order created",
			body: `{"artworkId":2}`,
			prepareMock: func() {
				service.EXPECT().CreateArtworkOrder(userCtx(), 1, 2).Return(pendingOrder(domain.ItemArtwork, "45000", 1), nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Artwork sold",
			body: `{"artworkId":2}`,
			prepareMock: func() {
				service.EXPECT().CreateArtworkOrder(userCtx(), 1, 2).Return(nil, domain.ErrArtworkUnavailable)
			},
			expectedCode:  http.StatusConflict,
			expectedError: domain.ErrArtworkUnavailable.Error(),
		},
		{
			name: "Artwork not found",
			body: `{"artworkId":9}`,
			prepareMock: func() {
				service.EXPECT().CreateArtworkOrder(userCtx(), 1, 9).Return(nil, domain.ErrNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Artwork not found",
		},
		{
			name:          "Missing artwork id",
			body:          `{}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/orders/artwork", bytes.NewReader([]byte(tt.body)))
			req = req.WithContext(userCtx())
			rr := httptest.NewRecorder()

			handler.CreateArtworkOrder(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
				return
			}
			var resp dto.OrderResponseDTO
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, float64(45000), resp.Amount)
			assert.Equal(t, domain.PaymentPending, resp.PaymentStatus)
		})
	}
}

func TestCreateExhibitionBookingHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Booking created",
			body: `{"exhibitionId":2,"slots":2}`,
			prepareMock: func() {
				service.EXPECT().CreateExhibitionBooking(userCtx(), 1, 2, 2).Return(pendingOrder(domain.ItemExhibition, "1000", 2), nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "More slots than available",
			body: `{"exhibitionId":2,"slots":50}`,
			prepareMock: func() {
				service.EXPECT().CreateExhibitionBooking(userCtx(), 1, 2, 50).Return(nil, domain.ErrInsufficientSlots)
			},
			expectedCode:  http.StatusConflict,
			expectedError: domain.ErrInsufficientSlots.Error(),
		},
		{
			name: "Exhibition already ended",
			body: `{"exhibitionId":2,"slots":1}`,
			prepareMock: func() {
				service.EXPECT().CreateExhibitionBooking(userCtx(), 1, 2, 1).Return(nil, domain.ErrExhibitionClosed)
			},
			expectedCode:  http.StatusConflict,
			expectedError: domain.ErrExhibitionClosed.Error(),
		},
		{
			name: "Zero slots",
			body: `{"exhibitionId":2,"slots":0}`,
			prepareMock: func() {
				service.EXPECT().CreateExhibitionBooking(userCtx(), 1, 2, 0).Return(nil, domain.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Database error",
			body: `{"exhibitionId":2,"slots":1}`,
			prepareMock: func() {
				service.EXPECT().CreateExhibitionBooking(userCtx(), 1, 2, 1).Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/orders/exhibition", bytes.NewReader([]byte(tt.body)))
			req = req.WithContext(userCtx())
			rr := httptest.NewRecorder()

			handler.CreateExhibitionBooking(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestListHandlers(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Own orders", func(t *testing.T) {
		service.EXPECT().ListUserOrders(userCtx(), 1).Return([]domain.Order{*pendingOrder(domain.ItemExhibition, "1000", 2)}, nil)

		rr := httptest.NewRecorder()
		handler.ListMine(rr, httptest.NewRequest("GET", "/orders", nil).WithContext(userCtx()))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "2024-06-01T12:00:00Z", resp[0].OrderDate)
	})

	t.Run("No orders is an empty array", func(t *testing.T) {
		service.EXPECT().ListUserOrders(userCtx(), 1).Return(nil, nil)

		rr := httptest.NewRecorder()
		handler.ListMine(rr, httptest.NewRequest("GET", "/orders", nil).WithContext(userCtx()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("All orders", func(t *testing.T) {
		service.EXPECT().ListAllOrders(context.Background()).Return(nil, errors.New("db error"))

		rr := httptest.NewRecorder()
		handler.ListAll(rr, httptest.NewRequest("GET", "/admin/orders", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Own tickets", func(t *testing.T) {
		service.EXPECT().ListUserTickets(userCtx(), 1).Return([]domain.Ticket{
			{ID: 1, OrderID: 10, ExhibitionID: 2, TicketCode: "TKT-123456789031", Slots: 2, Status: domain.TicketActive},
		}, nil)

		rr := httptest.NewRecorder()
		handler.ListTickets(rr, httptest.NewRequest("GET", "/tickets", nil).WithContext(userCtx()))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []dto.TicketResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "TKT-123456789031", resp[0].TicketCode)
	})

	t.Run("All tickets", func(t *testing.T) {
		service.EXPECT().ListAllTickets(context.Background()).Return(nil, nil)

		rr := httptest.NewRecorder()
		handler.ListAllTickets(rr, httptest.NewRequest("GET", "/admin/tickets", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestVerifyTicketHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		code          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Valid ticket",
			code: "TKT-123456789031",
			prepareMock: func() {
				service.EXPECT().VerifyTicket(gomock.Any(), "TKT-123456789031").
					Return(&domain.Ticket{ID: 1, TicketCode: "TKT-123456789031", Status: domain.TicketActive}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Malformed code",
			code: "TKT-123456789030",
			prepareMock: func() {
				service.EXPECT().VerifyTicket(gomock.Any(), "TKT-123456789030").Return(nil, domain.ErrMalformedTicketCode)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Invalid ticket code",
		},
		{
			name: "Unknown ticket",
			code: "TKT-000000000000",
			prepareMock: func() {
				service.EXPECT().VerifyTicket(gomock.Any(), "TKT-000000000000").Return(nil, domain.ErrNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Ticket not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("code", tt.code)
			req := httptest.NewRequest("GET", "/tickets/verify/"+tt.code, nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			handler.VerifyTicket(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}
