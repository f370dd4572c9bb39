package service

import (
	"time"

	"github.com/GlebRadaev/afriart/internal/handlers/artworks"
	"github.com/GlebRadaev/afriart/internal/handlers/auth"
	"github.com/GlebRadaev/afriart/internal/handlers/exhibitions"
	"github.com/GlebRadaev/afriart/internal/handlers/messages"
	"github.com/GlebRadaev/afriart/internal/handlers/orders"
	"github.com/GlebRadaev/afriart/internal/handlers/payments"
	"github.com/GlebRadaev/afriart/internal/reconcile"

	pkgauth "github.com/GlebRadaev/afriart/pkg/auth"

	"github.com/GlebRadaev/afriart/internal/repo"
	artworkservice "github.com/GlebRadaev/afriart/internal/service/artworkservice"
	authservice "github.com/GlebRadaev/afriart/internal/service/authservice"
	exhibitionservice "github.com/GlebRadaev/afriart/internal/service/exhibitionservice"
	messageservice "github.com/GlebRadaev/afriart/internal/service/messageservice"
	orderservice "github.com/GlebRadaev/afriart/internal/service/orderservice"
	paymentservice "github.com/GlebRadaev/afriart/internal/service/paymentservice"
)

// Deps are the collaborators that do not live in the database.
type Deps struct {
	JWT       pkgauth.JWTServiceInterface
	TokenTTL  time.Duration
	Images    artworkservice.ImageStore
	Gateway   paymentservice.Gateway
	Publisher paymentservice.Publisher
}

type Services struct {
	AuthService       auth.Service
	ArtworkService    artworks.Service
	ExhibitionService exhibitions.Service
	MessageService    messages.Service
	OrderService      orders.Service
	PaymentService    payments.Service
	Reconciler        reconcile.Resolver
}

func New(repo *repo.Repositories, deps Deps) *Services {
	authService := authservice.New(repo.UserRepo, repo.AdminRepo, repo.TokenRepo, &pkgauth.HashService{}, deps.JWT, deps.TokenTTL)
	orderService := orderservice.New(repo.OrderRepo, repo.ArtworkRepo, repo.ExhibitionRepo, repo.TicketRepo)
	paymentService := paymentservice.New(
		deps.Gateway,
		repo.TxManager,
		repo.TransactionRepo,
		repo.OrderRepo,
		repo.ExhibitionRepo,
		repo.ArtworkRepo,
		repo.TicketRepo,
		deps.Publisher,
	)

	return &Services{
		AuthService:       authService,
		ArtworkService:    artworkservice.New(repo.ArtworkRepo, repo.TxManager, deps.Images),
		ExhibitionService: exhibitionservice.New(repo.ExhibitionRepo, repo.TxManager, deps.Images),
		MessageService:    messageservice.New(repo.MessageRepo),
		OrderService:      orderService,
		PaymentService:    paymentService,
		Reconciler:        paymentService,
	}
}
