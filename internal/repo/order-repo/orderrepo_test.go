package orderrepo

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

var rowColumns = []string{"id", "user_id", "item_type", "item_id", "amount", "slots", "payment_method", "payment_status", "status", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB), mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Order saved",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs(3, "exhibition", 5, decimal.NewFromInt(1000), 2, "mpesa", "pending", "pending").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(21, created))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs(3, "exhibition", 5, decimal.NewFromInt(1000), 2, "mpesa", "pending", "pending").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			order := &domain.Order{
				UserID: 3, ItemType: "exhibition", ItemID: 5, Amount: decimal.NewFromInt(1000), Slots: 2,
				PaymentMethod: "mpesa", PaymentStatus: "pending", Status: "pending",
			}
			result, err := repo.Create(context.Background(), order)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 21, result.ID)
				assert.Equal(t, created, result.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(findByIDQuery)).WithArgs(21).
		WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(21, 3, "artwork", 8, "2500.00", 1, "mpesa", "pending", "pending", created))
	order, err := repo.FindByID(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, &domain.Order{
		ID: 21, UserID: 3, ItemType: "artwork", ItemID: 8, Amount: decimal.RequireFromString("2500.00"), Slots: 1,
		PaymentMethod: "mpesa", PaymentStatus: "pending", Status: "pending", CreatedAt: created,
	}, order)

	mock.ExpectQuery(regexp.QuoteMeta(findByIDQuery)).WithArgs(22).WillReturnError(pgx.ErrNoRows)
	order, err = repo.FindByID(context.Background(), 22)
	require.NoError(t, err)
	assert.Nil(t, order)

	mock.ExpectQuery(regexp.QuoteMeta(findByIDQuery)).WithArgs(23).WillReturnError(errors.New("database error"))
	_, err = repo.FindByID(context.Background(), 23)
	assert.Error(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(findForUpdate)).WithArgs(21).
		WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(21, 3, "artwork", 8, "2500.00", 1, "mpesa", "pending", "pending", created))
	order, err = repo.FindByIDForUpdate(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 21, order.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Lists(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(listByUserQuery)).WithArgs(3).
		WillReturnRows(pgxmock.NewRows(rowColumns).
			AddRow(2, 3, "artwork", 8, "10.00", 1, "mpesa", "completed", "completed", now).
			AddRow(1, 3, "exhibition", 5, "20.00", 2, "mpesa", "failed", "cancelled", now.Add(-time.Hour)))
	orders, err := repo.ListByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "completed", orders[0].Status)
	assert.Equal(t, 2, orders[1].Slots)

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnRows(pgxmock.NewRows(rowColumns))
	orders, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnError(errors.New("database error"))
	_, err = repo.List(context.Background())
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(updateStatusQuery)).WithArgs("completed", "completed", 21).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(context.Background(), 21, "completed", "completed"))

	mock.ExpectExec(regexp.QuoteMeta(updateStatusQuery)).WithArgs("failed", "cancelled", 21).
		WillReturnError(errors.New("database error"))
	assert.Error(t, repo.UpdateStatus(context.Background(), 21, "failed", "cancelled"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
