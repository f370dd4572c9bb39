package orderrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	columns = "id, user_id, item_type, item_id, amount, slots, payment_method, payment_status, status, created_at"

	createQuery = `
		INSERT INTO orders (user_id, item_type, item_id, amount, slots, payment_method, payment_status, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	findByIDQuery     = "SELECT " + columns + " FROM orders WHERE id = $1"
	findForUpdate     = findByIDQuery + " FOR UPDATE"
	listByUserQuery   = "SELECT " + columns + " FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC"
	listQuery         = "SELECT " + columns + " FROM orders ORDER BY created_at DESC, id DESC"
	updateStatusQuery = "UPDATE orders SET payment_status = $1, status = $2 WHERE id = $3"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ItemType, &o.ItemID, &o.Amount, &o.Slots,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	err := r.db.QueryRow(ctx, createQuery,
		order.UserID, order.ItemType, order.ItemID, order.Amount, order.Slots,
		order.PaymentMethod, order.PaymentStatus, order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	return r.find(ctx, findByIDQuery, id)
}

// FindByIDForUpdate locks the order until the surrounding transaction ends.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int) (*domain.Order, error) {
	return r.find(ctx, findForUpdate, id)
}

func (r *Repository) find(ctx context.Context, query string, id int) (*domain.Order, error) {
	order, err := scan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]domain.Order, error) {
	return r.list(ctx, listByUserQuery, userID)
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, listQuery)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, paymentStatus, status string) error {
	_, err := r.db.Exec(ctx, updateStatusQuery, paymentStatus, status, id)
	if err != nil {
		zap.L().Error("failed to update order", zap.Int("id", id), zap.Error(err))
		return err
	}
	return nil
}
