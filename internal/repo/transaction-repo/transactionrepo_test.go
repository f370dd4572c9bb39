package transactionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rowColumns = []string{
	"id", "checkout_request_id", "merchant_request_id", "order_type", "order_id", "user_id", "amount",
	"phone_number", "result_code", "result_desc", "mpesa_receipt_number", "status", "created_at", "updated_at",
}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB), mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Pending transaction saved",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs("ws_CO_1", "mr_1", "exhibition", 10, 3, decimal.NewFromInt(1000), "254712345678", "pending").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
			},
		},
		{
			name: "Duplicate checkout id",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs("ws_CO_1", "mr_1", "exhibition", 10, 3, decimal.NewFromInt(1000), "254712345678", "pending").
					WillReturnError(errors.New("duplicate key"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			tx := &domain.Transaction{
				CheckoutRequestID: "ws_CO_1", MerchantRequestID: "mr_1", OrderType: "exhibition", OrderID: 10, UserID: 3,
				Amount: decimal.NewFromInt(1000), PhoneNumber: "254712345678", Status: "pending",
			}
			result, err := repo.Create(context.Background(), tx)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 5, result.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Find(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	code := 0

	tests := []struct {
		name      string
		query     string
		find      func(ctx context.Context, id string) (*domain.Transaction, error)
		mockSetup func(query string)
		expected  *domain.Transaction
		expectErr bool
	}{
		{
			name:  "Found without lock",
			query: findByCheckoutIDQuery,
			find:  repo.FindByCheckoutID,
			mockSetup: func(query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("ws_CO_1").
					WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(5, "ws_CO_1", "mr_1", "artwork", 10, 3, "2500.00",
						"254712345678", &code, "ok", "QK1", "completed", now, now))
			},
			expected: &domain.Transaction{
				ID: 5, CheckoutRequestID: "ws_CO_1", MerchantRequestID: "mr_1", OrderType: "artwork", OrderID: 10, UserID: 3,
				Amount: decimal.RequireFromString("2500.00"), PhoneNumber: "254712345678", ResultCode: &code,
				ResultDesc: "ok", ReceiptNumber: "QK1", Status: "completed", CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name:  "Found with lock",
			query: findByCheckoutIDForUpdateQuery,
			find:  repo.FindByCheckoutIDForUpdate,
			mockSetup: func(query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("ws_CO_1").
					WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(5, "ws_CO_1", "mr_1", "artwork", 10, 3, "2500.00",
						"254712345678", (*int)(nil), "", "", "pending", now, now))
			},
			expected: &domain.Transaction{
				ID: 5, CheckoutRequestID: "ws_CO_1", MerchantRequestID: "mr_1", OrderType: "artwork", OrderID: 10, UserID: 3,
				Amount: decimal.RequireFromString("2500.00"), PhoneNumber: "254712345678", Status: "pending",
				CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name:  "Unknown checkout id",
			query: findByCheckoutIDForUpdateQuery,
			find:  repo.FindByCheckoutIDForUpdate,
			mockSetup: func(query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("ws_CO_1").WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:  "Database error",
			query: findByCheckoutIDQuery,
			find:  repo.FindByCheckoutID,
			mockSetup: func(query string) {
				mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs("ws_CO_1").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup(tt.query)
			result, err := tt.find(context.Background(), "ws_CO_1")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CompleteAndFail(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(completeQuery)).WithArgs(0, "processed", "QK1", 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.Complete(context.Background(), 5, 0, "processed", "QK1"))

	mock.ExpectExec(regexp.QuoteMeta(failQuery)).WithArgs(1032, "Request cancelled by user", 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.Fail(context.Background(), 5, 1032, "Request cancelled by user"))

	mock.ExpectExec(regexp.QuoteMeta(failQuery)).WithArgs(1, "x", 6).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.Fail(context.Background(), 6, 1, "x"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPendingBefore(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	before := now.Add(-time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(listPendingBeforeQuery)).WithArgs(before, 50).
		WillReturnRows(pgxmock.NewRows(rowColumns).
			AddRow(1, "ws_CO_1", "mr_1", "artwork", 10, 3, "10.00", "254712345678", (*int)(nil), "", "", "pending", now, now).
			AddRow(2, "ws_CO_2", "mr_2", "exhibition", 11, 4, "20.00", "254712345679", (*int)(nil), "", "", "pending", now, now))

	txs, err := repo.ListPendingBefore(context.Background(), before, 50)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "ws_CO_2", txs[1].CheckoutRequestID)

	mock.ExpectQuery(regexp.QuoteMeta(listPendingBeforeQuery)).WithArgs(before, 50).WillReturnError(errors.New("database error"))
	_, err = repo.ListPendingBefore(context.Background(), before, 50)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
