package ticketrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rowColumns = []string{"id", "order_id", "user_id", "exhibition_id", "ticket_code", "slots", "status", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB), mockDB
}

func TestRepository_CreateIfAbsent(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		inserted  bool
	}{
		{
			name: "Ticket issued",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs(10, 3, 5, "TKT-123456789031", 2, "active").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))
			},
			inserted: true,
		},
		{
			name: "Order already has a ticket",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs(10, 3, 5, "TKT-123456789031", 2, "active").
					WillReturnError(pgx.ErrNoRows)
			},
			inserted: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs(10, 3, 5, "TKT-123456789031", 2, "active").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			ticket := &domain.Ticket{OrderID: 10, UserID: 3, ExhibitionID: 5, TicketCode: "TKT-123456789031", Slots: 2, Status: "active"}
			inserted, err := repo.CreateIfAbsent(context.Background(), ticket)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.inserted, inserted)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ListByUserAndFindByCode(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(listByUserQuery)).WithArgs(3).
		WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(1, 10, 3, 5, "TKT-123456789031", 2, "active", now))
	tickets, err := repo.ListByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "TKT-123456789031", tickets[0].TicketCode)

	mock.ExpectQuery(regexp.QuoteMeta(findByCodeQuery)).WithArgs("TKT-123456789031").
		WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(1, 10, 3, 5, "TKT-123456789031", 2, "active", now))
	ticket, err := repo.FindByCode(context.Background(), "tkt-123456789031")
	require.NoError(t, err)
	assert.Equal(t, &domain.Ticket{ID: 1, OrderID: 10, UserID: 3, ExhibitionID: 5, TicketCode: "TKT-123456789031", Slots: 2, Status: "active", CreatedAt: now}, ticket)

	mock.ExpectQuery(regexp.QuoteMeta(findByCodeQuery)).WithArgs("TKT-000000000000").WillReturnError(pgx.ErrNoRows)
	ticket, err = repo.FindByCode(context.Background(), "TKT-000000000000")
	require.NoError(t, err)
	assert.Nil(t, ticket)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
		WillReturnRows(pgxmock.NewRows(rowColumns).
			AddRow(2, 11, 4, 5, "TKT-123456789049", 1, "active", now).
			AddRow(1, 10, 3, 5, "TKT-123456789031", 2, "active", now))
	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, 4, tickets[0].UserID)
	assert.Equal(t, 3, tickets[1].UserID)

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnError(errors.New("database error"))
	_, err = repo.List(context.Background())
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByOrderID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(findByOrderQuery)).WithArgs(10).
		WillReturnRows(pgxmock.NewRows(rowColumns).AddRow(1, 10, 3, 5, "TKT-123456789031", 2, "active", now))
	ticket, err := repo.FindByOrderID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "TKT-123456789031", ticket.TicketCode)

	mock.ExpectQuery(regexp.QuoteMeta(findByOrderQuery)).WithArgs(11).WillReturnError(pgx.ErrNoRows)
	ticket, err = repo.FindByOrderID(context.Background(), 11)
	require.NoError(t, err)
	assert.Nil(t, ticket)

	assert.NoError(t, mock.ExpectationsWereMet())
}
