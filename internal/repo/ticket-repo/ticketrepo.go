package ticketrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	columns = "id, order_id, user_id, exhibition_id, ticket_code, slots, status, created_at"

	// One ticket per order; a replayed finalization is a no-op.
	createQuery = `
		INSERT INTO tickets (order_id, user_id, exhibition_id, ticket_code, slots, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, created_at
	`
	listByUserQuery  = "SELECT " + columns + " FROM tickets WHERE user_id = $1 ORDER BY created_at DESC, id DESC"
	listQuery        = "SELECT " + columns + " FROM tickets ORDER BY created_at DESC, id DESC"
	findByCodeQuery  = "SELECT " + columns + " FROM tickets WHERE ticket_code = $1"
	findByOrderQuery = "SELECT " + columns + " FROM tickets WHERE order_id = $1"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row interface{ Scan(dest ...any) error }) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.OrderID, &t.UserID, &t.ExhibitionID, &t.TicketCode, &t.Slots, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateIfAbsent issues t unless its order already has a ticket. It reports
// whether a row was inserted.
func (r *Repository) CreateIfAbsent(ctx context.Context, t *domain.Ticket) (bool, error) {
	err := r.db.QueryRow(ctx, createQuery, t.OrderID, t.UserID, t.ExhibitionID, t.TicketCode, t.Slots, t.Status).
		Scan(&t.ID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		zap.L().Error("can't save ticket", zap.Int("orderID", t.OrderID), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]domain.Ticket, error) {
	return r.list(ctx, listByUserQuery, userID)
}

// List returns every issued ticket, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, listQuery)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get tickets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan ticket row", zap.Error(err))
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	t, err := scan(r.db.QueryRow(ctx, findByCodeQuery, strings.ToUpper(code)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find ticket", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID int) (*domain.Ticket, error) {
	t, err := scan(r.db.QueryRow(ctx, findByOrderQuery, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find ticket", zap.Int("orderID", orderID), zap.Error(err))
		return nil, err
	}
	return t, nil
}
