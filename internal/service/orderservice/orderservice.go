package orderservice

import (
	"context"
	"fmt"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/pkg/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type ArtworkRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Artwork, error)
}

type ExhibitionRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Exhibition, error)
}

type TicketRepo interface {
	ListByUser(ctx context.Context, userID int) ([]domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	FindByCode(ctx context.Context, code string) (*domain.Ticket, error)
}

type Service struct {
	repo        Repo
	artworks    ArtworkRepo
	exhibitions ExhibitionRepo
	tickets     TicketRepo
	now         func() time.Time
}

func New(repo Repo, artworks ArtworkRepo, exhibitions ExhibitionRepo, tickets TicketRepo) *Service {
	return &Service{
		repo:        repo,
		artworks:    artworks,
		exhibitions: exhibitions,
		tickets:     tickets,
		now:         time.Now,
	}
}

// CreateArtworkOrder opens a pending order for an available artwork. The
// artwork stays available until the payment for it is confirmed.
func (s *Service) CreateArtworkOrder(ctx context.Context, userID, artworkID int) (*domain.Order, error) {
	artwork, err := s.artworks.FindByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if artwork == nil {
		return nil, domain.ErrNotFound
	}
	if artwork.Status != domain.ArtworkAvailable {
		zap.L().Info("artwork is not available", zap.Int("artworkID", artworkID))
		return nil, domain.ErrArtworkUnavailable
	}

	return s.create(ctx, &domain.Order{
		UserID:   userID,
		ItemType: domain.ItemArtwork,
		ItemID:   artworkID,
		Amount:   artwork.Price,
		Slots:    1,
	})
}

// CreateExhibitionBooking opens a pending booking. Slots are only reserved
// when the payment completes.
func (s *Service) CreateExhibitionBooking(ctx context.Context, userID, exhibitionID, slots int) (*domain.Order, error) {
	if slots < 1 {
		return nil, fmt.Errorf("%w: slots must be at least 1", domain.ErrValidation)
	}
	exhibition, err := s.exhibitions.FindByID(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}
	if exhibition == nil {
		return nil, domain.ErrNotFound
	}
	if s.isClosed(exhibition) {
		return nil, domain.ErrExhibitionClosed
	}
	if slots > exhibition.AvailableSlots {
		zap.L().Info("not enough slots",
			zap.Int("exhibitionID", exhibitionID),
			zap.Int("requested", slots),
			zap.Int("available", exhibition.AvailableSlots),
		)
		return nil, domain.ErrInsufficientSlots
	}

	return s.create(ctx, &domain.Order{
		UserID:   userID,
		ItemType: domain.ItemExhibition,
		ItemID:   exhibitionID,
		Amount:   exhibition.TicketPrice.Mul(decimal.NewFromInt(int64(slots))),
		Slots:    slots,
	})
}

func (s *Service) isClosed(e *domain.Exhibition) bool {
	if e.Status == domain.ExhibitionPast {
		return true
	}
	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !e.EndDate.IsZero() && e.EndDate.Before(today)
}

func (s *Service) create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.PaymentMethod = domain.PaymentMethodMpesa
	order.PaymentStatus = domain.PaymentPending
	order.Status = domain.OrderPending

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	zap.L().Info("order created",
		zap.Int("orderID", created.ID),
		zap.String("itemType", created.ItemType),
		zap.String("amount", created.Amount.StringFixed(2)),
	)
	return created, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListUserTickets(ctx context.Context, userID int) ([]domain.Ticket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

func (s *Service) ListAllTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// VerifyTicket checks the code format before touching the database.
func (s *Service) VerifyTicket(ctx context.Context, code string) (*domain.Ticket, error) {
	if !validate.IsTicketCode(code) {
		return nil, domain.ErrMalformedTicketCode
	}
	ticket, err := s.tickets.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}
	return ticket, nil
}
