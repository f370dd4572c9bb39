package artworkrepo

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

var rowColumns = []string{"id", "title", "artist", "description", "price", "image_url", "dimensions", "medium", "year", "status", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB), mockDB
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	year := 2021
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		id        int
		mockSetup func()
		expectErr bool
		result    *domain.Artwork
	}{
		{
			name: "Artwork found",
			id:   1,
			mockSetup: func() {
				rows := pgxmock.NewRows(rowColumns).
					AddRow(1, "Maasai Mara Dawn", "W. Kamau", "Oil on canvas", "1500.00", "/static/uploads/a.jpg", "60x90", "Oil", &year, "available", created)
				mock.ExpectQuery(regexp.QuoteMeta(findByIDQuery)).WithArgs(1).WillReturnRows(rows)
			},
			result: &domain.Artwork{
				ID: 1, Title: "Maasai Mara Dawn", Artist: "W. Kamau", Description: "Oil on canvas",
				Price: decimal.RequireFromString("1500.00"), ImageURL: "/static/uploads/a.jpg",
				Dimensions: "60x90", Medium: "Oil", Year: &year, Status: "available", CreatedAt: created,
			},
		},
		{
			name: "Artwork not found",
			id:   2,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findByIDQuery)).WithArgs(2).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			id:   3,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findByIDQuery)).WithArgs(3).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.id)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Now()

	rows := pgxmock.NewRows(rowColumns).
		AddRow(2, "Newer", "B", "", "10.00", "", "", "", (*int)(nil), "sold", created).
		AddRow(1, "Older", "A", "", "20.00", "", "", "", (*int)(nil), "available", created.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnRows(rows)

	artworks, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, artworks, 2)
	assert.Equal(t, 2, artworks[0].ID)
	assert.Equal(t, "sold", artworks[0].Status)
	assert.Equal(t, 1, artworks[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDForUpdate(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows(rowColumns).
		AddRow(5, "Sold Piece", "C", "", "30.00", "", "", "", (*int)(nil), "sold", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(findForUpdate)).WithArgs(5).WillReturnRows(rows)

	artwork, err := repo.FindByIDForUpdate(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "sold", artwork.Status)

	mock.ExpectQuery(regexp.QuoteMeta(findForUpdate)).WithArgs(6).WillReturnError(pgx.ErrNoRows)
	artwork, err = repo.FindByIDForUpdate(context.Background(), 6)
	require.NoError(t, err)
	assert.Nil(t, artwork)

	assert.NoError(t, mock.ExpectationsWereMet())
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
			name: "Create artwork successfully",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs("Title", "Artist", "", decimal.NewFromInt(100), "", "", "", (*int)(nil), "available").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
					WithArgs("Title", "Artist", "", decimal.NewFromInt(100), "", "", "", (*int)(nil), "available").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			a := &domain.Artwork{Title: "Title", Artist: "Artist", Price: decimal.NewFromInt(100), Status: "available"}
			result, err := repo.Create(context.Background(), a)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 7, result.ID)
				assert.Equal(t, created, result.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo, mock := NewMock(t)
	a := &domain.Artwork{ID: 4, Title: "T", Artist: "A", Price: decimal.NewFromInt(1), Status: "available"}

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("T", "A", "", decimal.NewFromInt(1), "", "", "", (*int)(nil), "available", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := repo.Update(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("T", "A", "", decimal.NewFromInt(1), "", "", "", (*int)(nil), "available", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	ok, err = repo.Update(context.Background(), a)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WithArgs(4).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	ok, err = repo.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WithArgs(5).WillReturnError(errors.New("database error"))
	_, err = repo.Delete(context.Background(), 5)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkSold(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(markSoldQuery)).WithArgs(9).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := repo.MarkSold(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta(markSoldQuery)).WithArgs(9).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	ok, err = repo.MarkSold(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok, "second flip must not succeed")

	assert.NoError(t, mock.ExpectationsWereMet())
}
