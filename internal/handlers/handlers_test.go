package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/GlebRadaev/afriart/docs"
	"github.com/GlebRadaev/afriart/internal/handlers/artworks"
	authhandlers "github.com/GlebRadaev/afriart/internal/handlers/auth"
	"github.com/GlebRadaev/afriart/internal/handlers/exhibitions"
	"github.com/GlebRadaev/afriart/internal/handlers/messages"
	"github.com/GlebRadaev/afriart/internal/handlers/orders"
	"github.com/GlebRadaev/afriart/internal/handlers/payments"
	"github.com/GlebRadaev/afriart/internal/service"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:       authhandlers.NewMockService(ctrl),
		ArtworkService:    artworks.NewMockService(ctrl),
		ExhibitionService: exhibitions.NewMockService(ctrl),
		MessageService:    messages.NewMockService(ctrl),
		OrderService:      orders.NewMockService(ctrl),
		PaymentService:    payments.NewMockService(ctrl),
	}

	h := New(services, auth.NewJWTService("secret"), t.TempDir(), "")
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.Revocations)
}

type mocks struct {
	auth        *MockAuthHandler
	artworks    *MockCatalogHandler
	exhibitions *MockCatalogHandler
	messages    *MockMessageHandler
	orders      *MockOrderHandler
	payments    *MockPaymentHandler
}

func newRouter(t *testing.T, uploadDir string) (chi.Router, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		auth:        NewMockAuthHandler(ctrl),
		artworks:    NewMockCatalogHandler(ctrl),
		exhibitions: NewMockCatalogHandler(ctrl),
		messages:    NewMockMessageHandler(ctrl),
		orders:      NewMockOrderHandler(ctrl),
		payments:    NewMockPaymentHandler(ctrl),
	}
	h := &Handlers{
		AuthHandler:       m.auth,
		ArtworkHandler:    m.artworks,
		ExhibitionHandler: m.exhibitions,
		MessageHandler:    m.messages,
		OrderHandler:      m.orders,
		PaymentHandler:    m.payments,
		JWTService:        auth.NewJWTService("secret"),
		UploadDir:         uploadDir,
	}
	router := chi.NewRouter()
	h.InitRoutes(router)
	return router, m
}

func token(t *testing.T, isAdmin bool) string {
	tok, err := auth.NewJWTService("secret").GenerateJWT(1, "Amina", isAdmin, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func TestInitRoutesPublic(t *testing.T) {
	router, m := newRouter(t, "")

	m.auth.EXPECT().Register(gomock.Any(), gomock.Any())
	m.auth.EXPECT().Login(gomock.Any(), gomock.Any())
	m.auth.EXPECT().AdminLogin(gomock.Any(), gomock.Any())
	m.messages.EXPECT().Submit(gomock.Any(), gomock.Any())
	m.artworks.EXPECT().List(gomock.Any(), gomock.Any())
	m.artworks.EXPECT().Get(gomock.Any(), gomock.Any())
	m.exhibitions.EXPECT().List(gomock.Any(), gomock.Any())
	m.exhibitions.EXPECT().Get(gomock.Any(), gomock.Any())
	m.payments.EXPECT().Callback(gomock.Any(), gomock.Any())
	m.payments.EXPECT().Status(gomock.Any(), gomock.Any())

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/register", http.StatusOK},
		{"POST", "/login", http.StatusOK},
		{"POST", "/admin-login", http.StatusOK},
		{"POST", "/contact", http.StatusOK},
		{"GET", "/artworks", http.StatusOK},
		{"GET", "/artworks/1", http.StatusOK},
		{"GET", "/exhibitions", http.StatusOK},
		{"GET", "/exhibitions/1", http.StatusOK},
		{"POST", "/mpesa/callback", http.StatusOK},
		{"GET", "/mpesa/status/ws_CO_1", http.StatusOK},
		{"GET", "/healthz", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestInitRoutesAuthentication(t *testing.T) {
	router, m := newRouter(t, "")
	userToken := token(t, false)
	adminToken := token(t, true)

	// Handlers behind the admin group are reached only with the admin token.
	m.artworks.EXPECT().Create(gomock.Any(), gomock.Any())
	m.artworks.EXPECT().Update(gomock.Any(), gomock.Any())
	m.artworks.EXPECT().Delete(gomock.Any(), gomock.Any())
	m.exhibitions.EXPECT().Create(gomock.Any(), gomock.Any())
	m.exhibitions.EXPECT().Update(gomock.Any(), gomock.Any())
	m.exhibitions.EXPECT().Delete(gomock.Any(), gomock.Any())
	m.messages.EXPECT().List(gomock.Any(), gomock.Any())
	m.messages.EXPECT().UpdateStatus(gomock.Any(), gomock.Any())
	m.orders.EXPECT().ListAll(gomock.Any(), gomock.Any())
	m.orders.EXPECT().ListAllTickets(gomock.Any(), gomock.Any())
	m.orders.EXPECT().VerifyTicket(gomock.Any(), gomock.Any())

	// Customer handlers are reached only with the user token.
	m.auth.EXPECT().Logout(gomock.Any(), gomock.Any()).Times(2)
	m.orders.EXPECT().ListMine(gomock.Any(), gomock.Any())
	m.orders.EXPECT().CreateArtworkOrder(gomock.Any(), gomock.Any())
	m.orders.EXPECT().CreateExhibitionBooking(gomock.Any(), gomock.Any())
	m.orders.EXPECT().ListTickets(gomock.Any(), gomock.Any())
	m.payments.EXPECT().STKPush(gomock.Any(), gomock.Any())

	adminRoutes := []struct {
		method string
		url    string
	}{
		{"POST", "/artworks"},
		{"PUT", "/artworks/1"},
		{"DELETE", "/artworks/1"},
		{"POST", "/exhibitions"},
		{"PUT", "/exhibitions/1"},
		{"DELETE", "/exhibitions/1"},
		{"GET", "/messages"},
		{"PUT", "/messages/1"},
		{"GET", "/admin/orders"},
		{"GET", "/admin/tickets"},
		{"GET", "/tickets/verify/TKT-123456789031"},
	}
	userRoutes := []struct {
		method string
		url    string
	}{
		{"GET", "/orders"},
		{"POST", "/orders/artwork"},
		{"POST", "/orders/exhibition"},
		{"GET", "/tickets"},
		{"POST", "/mpesa/stk-push"},
	}

	serve := func(method, url, tok string) int {
		req := httptest.NewRequest(method, url, nil)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for _, rt := range adminRoutes {
		t.Run("admin "+rt.method+" "+rt.url, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(rt.method, rt.url, ""))
			assert.Equal(t, http.StatusUnauthorized, serve(rt.method, rt.url, "garbage"))
			assert.Equal(t, http.StatusForbidden, serve(rt.method, rt.url, userToken))
			assert.Equal(t, http.StatusOK, serve(rt.method, rt.url, adminToken))
		})
	}
	for _, rt := range userRoutes {
		t.Run("user "+rt.method+" "+rt.url, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(rt.method, rt.url, ""))
			assert.Equal(t, http.StatusForbidden, serve(rt.method, rt.url, adminToken))
			assert.Equal(t, http.StatusOK, serve(rt.method, rt.url, userToken))
		})
	}

	t.Run("logout for both roles", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("POST", "/logout", ""))
		assert.Equal(t, http.StatusOK, serve("POST", "/logout", userToken))
		assert.Equal(t, http.StatusOK, serve("POST", "/logout", adminToken))
	})
}

func TestInitRoutesServesUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "art.jpg"), []byte("jpeg"), 0o600))
	router, _ := newRouter(t, dir)

	req := httptest.NewRequest("GET", "/static/uploads/art.jpg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())
}
