package handlers

import (
	"net/http"

	_ "github.com/GlebRadaev/afriart/docs"
	artworkhandlers "github.com/GlebRadaev/afriart/internal/handlers/artworks"
	authhandlers "github.com/GlebRadaev/afriart/internal/handlers/auth"
	exhibitionhandlers "github.com/GlebRadaev/afriart/internal/handlers/exhibitions"
	messagehandlers "github.com/GlebRadaev/afriart/internal/handlers/messages"
	ordershandlers "github.com/GlebRadaev/afriart/internal/handlers/orders"
	paymenthandlers "github.com/GlebRadaev/afriart/internal/handlers/payments"
	"github.com/GlebRadaev/afriart/internal/service"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	AdminLogin(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type CatalogHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateArtworkOrder(w http.ResponseWriter, r *http.Request)
	CreateExhibitionBooking(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListTickets(w http.ResponseWriter, r *http.Request)
	ListAllTickets(w http.ResponseWriter, r *http.Request)
	VerifyTicket(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	STKPush(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	ArtworkHandler    CatalogHandler
	ExhibitionHandler CatalogHandler
	MessageHandler    MessageHandler
	OrderHandler      OrderHandler
	PaymentHandler    PaymentHandler

	JWTService  auth.JWTServiceInterface
	Revocations auth.RevocationChecker
	UploadDir   string
}

func New(s *service.Services, jwtService auth.JWTServiceInterface, uploadDir, callbackToken string) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService),
		ArtworkHandler:    artworkhandlers.New(s.ArtworkService),
		ExhibitionHandler: exhibitionhandlers.New(s.ExhibitionService),
		MessageHandler:    messagehandlers.New(s.MessageService),
		OrderHandler:      ordershandlers.New(s.OrderService),
		PaymentHandler:    paymenthandlers.New(s.PaymentService, callbackToken),
		JWTService:        jwtService,
		Revocations:       s.AuthService,
		UploadDir:         uploadDir,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "ok"})
	})
	if h.UploadDir != "" {
		r.Handle("/static/uploads/*", http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(h.UploadDir))))
	}

	r.Post("/register", h.AuthHandler.Register)
	r.Post("/login", h.AuthHandler.Login)
	r.Post("/admin-login", h.AuthHandler.AdminLogin)
	r.Post("/contact", h.MessageHandler.Submit)
	r.Get("/artworks", h.ArtworkHandler.List)
	r.Get("/artworks/{id}", h.ArtworkHandler.Get)
	r.Get("/exhibitions", h.ExhibitionHandler.List)
	r.Get("/exhibitions/{id}", h.ExhibitionHandler.Get)
	r.Post("/mpesa/callback", h.PaymentHandler.Callback)
	r.Get("/mpesa/status/{checkoutRequestId}", h.PaymentHandler.Status)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticator(h.JWTService, h.Revocations))

		r.Post("/logout", h.AuthHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.OrderHandler.ListMine)
				r.Post("/artwork", h.OrderHandler.CreateArtworkOrder)
				r.Post("/exhibition", h.OrderHandler.CreateExhibitionBooking)
			})
			r.Get("/tickets", h.OrderHandler.ListTickets)
			r.Post("/mpesa/stk-push", h.PaymentHandler.STKPush)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/artworks", h.ArtworkHandler.Create)
			r.Put("/artworks/{id}", h.ArtworkHandler.Update)
			r.Delete("/artworks/{id}", h.ArtworkHandler.Delete)
			r.Post("/exhibitions", h.ExhibitionHandler.Create)
			r.Put("/exhibitions/{id}", h.ExhibitionHandler.Update)
			r.Delete("/exhibitions/{id}", h.ExhibitionHandler.Delete)
			r.Get("/messages", h.MessageHandler.List)
			r.Put("/messages/{id}", h.MessageHandler.UpdateStatus)
			r.Get("/admin/orders", h.OrderHandler.ListAll)
			r.Get("/admin/tickets", h.OrderHandler.ListAllTickets)
			r.Get("/tickets/verify/{code}", h.OrderHandler.VerifyTicket)
		})
	})

	return r
}
