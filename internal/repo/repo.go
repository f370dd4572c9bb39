package repo

import (
	"github.com/GlebRadaev/afriart/internal/pg"
	adminrepo "github.com/GlebRadaev/afriart/internal/repo/admin-repo"
	artworkrepo "github.com/GlebRadaev/afriart/internal/repo/artwork-repo"
	exhibitionrepo "github.com/GlebRadaev/afriart/internal/repo/exhibition-repo"
	messagerepo "github.com/GlebRadaev/afriart/internal/repo/message-repo"
	orderrepo "github.com/GlebRadaev/afriart/internal/repo/order-repo"
	ticketrepo "github.com/GlebRadaev/afriart/internal/repo/ticket-repo"
	tokenrepo "github.com/GlebRadaev/afriart/internal/repo/token-repo"
	transactionrepo "github.com/GlebRadaev/afriart/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/afriart/internal/repo/user-repo"
	"github.com/GlebRadaev/afriart/internal/service/artworkservice"
	"github.com/GlebRadaev/afriart/internal/service/authservice"
	"github.com/GlebRadaev/afriart/internal/service/exhibitionservice"
	"github.com/GlebRadaev/afriart/internal/service/messageservice"
	"github.com/GlebRadaev/afriart/internal/service/orderservice"
	"github.com/GlebRadaev/afriart/internal/service/paymentservice"
)

// Repositories shared by several services satisfy each consumer's interface.
type (
	ArtworkRepo interface {
		artworkservice.Repo
		paymentservice.ArtworkRepo
	}
	ExhibitionRepo interface {
		exhibitionservice.Repo
		paymentservice.ExhibitionRepo
	}
	OrderRepo interface {
		orderservice.Repo
		paymentservice.OrderRepo
	}
	TicketRepo interface {
		orderservice.TicketRepo
		paymentservice.TicketRepo
	}
)

type Repositories struct {
	UserRepo        authservice.UserRepo
	AdminRepo       authservice.AdminRepo
	TokenRepo       authservice.TokenRepo
	ArtworkRepo     ArtworkRepo
	ExhibitionRepo  ExhibitionRepo
	MessageRepo     messageservice.Repo
	OrderRepo       OrderRepo
	TicketRepo      TicketRepo
	TransactionRepo paymentservice.TransactionRepo
	TxManager       pg.TXManager
}

// New wires the Postgres repositories. redis may be nil, the token denylist
// is then disabled.
func New(conn pg.Database, txManager pg.TXManager, redis tokenrepo.Client) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		AdminRepo:       adminrepo.New(conn),
		TokenRepo:       tokenrepo.New(redis),
		ArtworkRepo:     artworkrepo.New(conn),
		ExhibitionRepo:  exhibitionrepo.New(conn),
		MessageRepo:     messagerepo.New(conn),
		OrderRepo:       orderrepo.New(conn),
		TicketRepo:      ticketrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
		TxManager:       txManager,
	}
}
