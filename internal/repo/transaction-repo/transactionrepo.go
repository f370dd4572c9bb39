package transactionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	columns = "id, checkout_request_id, merchant_request_id, order_type, order_id, user_id, amount, " +
		"phone_number, result_code, result_desc, mpesa_receipt_number, status, created_at, updated_at"

	createQuery = `
		INSERT INTO mpesa_transactions
			(checkout_request_id, merchant_request_id, order_type, order_id, user_id, amount, phone_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	findByCheckoutIDQuery          = "SELECT " + columns + " FROM mpesa_transactions WHERE checkout_request_id = $1"
	findByCheckoutIDForUpdateQuery = findByCheckoutIDQuery + " FOR UPDATE"
	completeQuery                  = `
		UPDATE mpesa_transactions
		SET status = 'completed', result_code = $1, result_desc = $2, mpesa_receipt_number = $3, updated_at = NOW()
		WHERE id = $4
	`
	failQuery = `
		UPDATE mpesa_transactions
		SET status = 'failed', result_code = $1, result_desc = $2, updated_at = NOW()
		WHERE id = $3
	`
	listPendingBeforeQuery = "SELECT " + columns + ` FROM mpesa_transactions
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2`
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row interface{ Scan(dest ...any) error }) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.CheckoutRequestID, &t.MerchantRequestID, &t.OrderType, &t.OrderID, &t.UserID,
		&t.Amount, &t.PhoneNumber, &t.ResultCode, &t.ResultDesc, &t.ReceiptNumber, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	err := r.db.QueryRow(ctx, createQuery,
		t.CheckoutRequestID, t.MerchantRequestID, t.OrderType, t.OrderID, t.UserID, t.Amount, t.PhoneNumber, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.String("checkoutRequestID", t.CheckoutRequestID), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) FindByCheckoutID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	return r.find(ctx, findByCheckoutIDQuery, checkoutRequestID)
}

// FindByCheckoutIDForUpdate locks the row until the surrounding transaction ends.
func (r *Repository) FindByCheckoutIDForUpdate(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	return r.find(ctx, findByCheckoutIDForUpdateQuery, checkoutRequestID)
}

func (r *Repository) find(ctx context.Context, query, checkoutRequestID string) (*domain.Transaction, error) {
	t, err := scan(r.db.QueryRow(ctx, query, checkoutRequestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction", zap.String("checkoutRequestID", checkoutRequestID), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) Complete(ctx context.Context, id, resultCode int, resultDesc, receipt string) error {
	_, err := r.db.Exec(ctx, completeQuery, resultCode, resultDesc, receipt, id)
	if err != nil {
		zap.L().Error("can't complete transaction", zap.Int("id", id), zap.Error(err))
	}
	return err
}

func (r *Repository) Fail(ctx context.Context, id, resultCode int, resultDesc string) error {
	_, err := r.db.Exec(ctx, failQuery, resultCode, resultDesc, id)
	if err != nil {
		zap.L().Error("can't fail transaction", zap.Int("id", id), zap.Error(err))
	}
	return err
}

func (r *Repository) ListPendingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, listPendingBeforeQuery, before, limit)
	if err != nil {
		zap.L().Error("can't list pending transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}
