package repo

import (
	"context"
	"testing"

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
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager, tokenrepo.NewMockClient(ctrl))
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.IsType(t, &userrepo.Repository{}, repo.UserRepo)
	assert.IsType(t, &adminrepo.Repository{}, repo.AdminRepo)
	assert.IsType(t, &tokenrepo.Repository{}, repo.TokenRepo)
	assert.IsType(t, &artworkrepo.Repository{}, repo.ArtworkRepo)
	assert.IsType(t, &exhibitionrepo.Repository{}, repo.ExhibitionRepo)
	assert.IsType(t, &messagerepo.Repository{}, repo.MessageRepo)
	assert.IsType(t, &orderrepo.Repository{}, repo.OrderRepo)
	assert.IsType(t, &ticketrepo.Repository{}, repo.TicketRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)
	assert.NotNil(t, repo.TxManager)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}

func TestNewWithoutRedis(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockDB.Close)

	repo := New(mockDB, pg.NewMockTXManager(gomock.NewController(t)), nil)

	revoked, err := repo.TokenRepo.IsRevoked(context.Background(), "jti")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
