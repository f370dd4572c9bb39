package artworkservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func ptr[T any](v T) *T {
	return &v
}

func NewMock(t *testing.T) (*Service, *MockRepo, *MockImageStore) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	images := NewMockImageStore(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}).AnyTimes()
	return New(repo, txManager, images), repo, images
}

func TestCreate(t *testing.T) {
	service, repo, images := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		req           dto.ArtworkRequestDTO
		prepareMock   func()
		expected      *domain.Artwork
		expectedError error
	}{
		{
			name: "Status defaults to available",
			req: dto.ArtworkRequestDTO{
				Title: ptr("Sunrise"), Artist: ptr("Achieng"), Price: ptr(decimal.NewFromInt(45000)),
				ImageURL: ptr("data:image/png;base64,iVBORw0KGgo="), Year: ptr(2023),
			},
			prepareMock: func() {
				images.EXPECT().Save("data:image/png;base64,iVBORw0KGgo=").Return("/static/uploads/abc.png")
				repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.Artwork) (*domain.Artwork, error) {
					a.ID = 1
					return a, nil
				})
			},
			expected: &domain.Artwork{
				ID: 1, Title: "Sunrise", Artist: "Achieng", Price: decimal.NewFromInt(45000),
				ImageURL: "/static/uploads/abc.png", Year: ptr(2023), Status: domain.ArtworkAvailable,
			},
		},
		{
			name:          "Missing artist",
			req:           dto.ArtworkRequestDTO{Title: ptr("Sunrise"), Price: ptr(decimal.NewFromInt(1))},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "Negative price",
			req:           dto.ArtworkRequestDTO{Title: ptr("Sunrise"), Artist: ptr("Achieng"), Price: ptr(decimal.NewFromInt(-1))},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "Unknown status",
			req:           dto.ArtworkRequestDTO{Title: ptr("Sunrise"), Artist: ptr("Achieng"), Status: ptr("reserved")},
			prepareMock:   func() {},
			expectedError: domain.ErrInvalidStatus,
		},
		{
			name:          "Invalid request stores no image",
			req:           dto.ArtworkRequestDTO{Title: ptr("Sunrise"), ImageURL: ptr("iVBORw0KGgo=")},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name: "Image removed when insert fails",
			req:  dto.ArtworkRequestDTO{Title: ptr("Sunrise"), Artist: ptr("Achieng"), ImageURL: ptr("iVBORw0KGgo=")},
			prepareMock: func() {
				images.EXPECT().Save("iVBORw0KGgo=").Return("/static/uploads/new.jpg")
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("database error"))
				images.EXPECT().Remove("/static/uploads/new.jpg")
			},
			expectedError: errors.New("database error"),
		},
		{
			name: "Database error",
			req:  dto.ArtworkRequestDTO{Title: ptr("Sunrise"), Artist: ptr("Achieng")},
			prepareMock: func() {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			artwork, err := service.Create(ctx, tt.req)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, artwork)
				if errors.Is(tt.expectedError, domain.ErrValidation) || errors.Is(tt.expectedError, domain.ErrInvalidStatus) {
					assert.ErrorIs(t, err, tt.expectedError)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, artwork)
			}
		})
	}
}

func TestCreateThenGet(t *testing.T) {
	service, repo, _ := NewMock(t)
	ctx := context.Background()
	var stored *domain.Artwork

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.Artwork) (*domain.Artwork, error) {
		a.ID = 5
		copied := *a
		stored = &copied
		return a, nil
	})
	repo.EXPECT().FindByID(ctx, 5).DoAndReturn(func(_ context.Context, _ int) (*domain.Artwork, error) {
		return stored, nil
	})

	created, err := service.Create(ctx, dto.ArtworkRequestDTO{Title: ptr("Savannah"), Artist: ptr("Kip"), Price: ptr(decimal.NewFromInt(100))})
	require.NoError(t, err)
	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Savannah", got.Title)
	assert.Equal(t, domain.ArtworkAvailable, got.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Price))
}

func TestGet(t *testing.T) {
	service, repo, _ := NewMock(t)
	ctx := context.Background()

	repo.EXPECT().FindByID(ctx, 9).Return(nil, nil)
	_, err := service.Get(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	repo.EXPECT().FindByID(ctx, 10).Return(nil, errors.New("database error"))
	_, err = service.Get(ctx, 10)
	assert.EqualError(t, err, "database error")
}

func TestUpdate(t *testing.T) {
	service, repo, images := NewMock(t)
	ctx := context.Background()
	stored := func() *domain.Artwork {
		return &domain.Artwork{ID: 3, Title: "Old", Artist: "Kip", Price: decimal.NewFromInt(10), Status: domain.ArtworkAvailable, Medium: "Oil", ImageURL: "/static/uploads/old.jpg"}
	}
	sold := func() *domain.Artwork {
		a := stored()
		a.Status = domain.ArtworkSold
		return a
	}

	tests := []struct {
		name          string
		req           dto.ArtworkRequestDTO
		prepareMock   func()
		expected      *domain.Artwork
		expectedError error
	}{
		{
			name: "Partial update keeps other fields",
			req:  dto.ArtworkRequestDTO{Title: ptr("New"), Price: ptr(decimal.NewFromInt(20))},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(stored(), nil)
				repo.EXPECT().Update(ctx, gomock.Any()).Return(true, nil)
			},
			expected: &domain.Artwork{ID: 3, Title: "New", Artist: "Kip", Price: decimal.NewFromInt(20), Status: domain.ArtworkAvailable, Medium: "Oil", ImageURL: "/static/uploads/old.jpg"},
		},
		{
			name: "Replaced image is removed",
			req:  dto.ArtworkRequestDTO{ImageURL: ptr("iVBORw0KGgo=")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(stored(), nil)
				images.EXPECT().Save("iVBORw0KGgo=").Return("/static/uploads/new.jpg")
				repo.EXPECT().Update(ctx, gomock.Any()).Return(true, nil)
				images.EXPECT().Remove("/static/uploads/old.jpg")
			},
			expected: &domain.Artwork{ID: 3, Title: "Old", Artist: "Kip", Price: decimal.NewFromInt(10), Status: domain.ArtworkAvailable, Medium: "Oil", ImageURL: "/static/uploads/new.jpg"},
		},
		{
			name: "New image removed when write fails",
			req:  dto.ArtworkRequestDTO{ImageURL: ptr("iVBORw0KGgo=")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(stored(), nil)
				images.EXPECT().Save("iVBORw0KGgo=").Return("/static/uploads/new.jpg")
				repo.EXPECT().Update(ctx, gomock.Any()).Return(false, errors.New("database error"))
				images.EXPECT().Remove("/static/uploads/new.jpg")
			},
			expectedError: errors.New("database error"),
		},
		{
			name: "Invalid update stores no image",
			req:  dto.ArtworkRequestDTO{Artist: ptr(" "), ImageURL: ptr("iVBORw0KGgo=")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(stored(), nil)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name: "Sold artwork can't become available",
			req:  dto.ArtworkRequestDTO{Status: ptr(domain.ArtworkAvailable)},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(sold(), nil)
			},
			expectedError: domain.ErrInvalidStatus,
		},
		{
			name: "Sold artwork details can change",
			req:  dto.ArtworkRequestDTO{Title: ptr("Renamed")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(sold(), nil)
				repo.EXPECT().Update(ctx, gomock.Any()).Return(true, nil)
			},
			expected: &domain.Artwork{ID: 3, Title: "Renamed", Artist: "Kip", Price: decimal.NewFromInt(10), Status: domain.ArtworkSold, Medium: "Oil", ImageURL: "/static/uploads/old.jpg"},
		},
		{
			name: "Missing at read time",
			req:  dto.ArtworkRequestDTO{Title: ptr("New")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "Deleted between read and write",
			req:  dto.ArtworkRequestDTO{Title: ptr("New")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(stored(), nil)
				repo.EXPECT().Update(ctx, gomock.Any()).Return(false, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "Invalid status",
			req:  dto.ArtworkRequestDTO{Status: ptr("gone")},
			prepareMock: func() {
				repo.EXPECT().FindByIDForUpdate(ctx, 3).Return(stored(), nil)
			},
			expectedError: domain.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			artwork, err := service.Update(ctx, 3, tt.req)
			if tt.expectedError != nil {
				if errors.Is(tt.expectedError, domain.ErrValidation) || errors.Is(tt.expectedError, domain.ErrInvalidStatus) || errors.Is(tt.expectedError, domain.ErrNotFound) {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
				assert.Nil(t, artwork)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, artwork)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	service, repo, images := NewMock(t)
	ctx := context.Background()

	repo.EXPECT().FindByID(ctx, 1).Return(&domain.Artwork{ID: 1, ImageURL: "/static/uploads/a.jpg"}, nil)
	repo.EXPECT().Delete(ctx, 1).Return(true, nil)
	images.EXPECT().Remove("/static/uploads/a.jpg")
	assert.NoError(t, service.Delete(ctx, 1))

	repo.EXPECT().FindByID(ctx, 2).Return(nil, nil)
	assert.ErrorIs(t, service.Delete(ctx, 2), domain.ErrNotFound)

	repo.EXPECT().FindByID(ctx, 3).Return(&domain.Artwork{ID: 3}, nil)
	repo.EXPECT().Delete(ctx, 3).Return(false, nil)
	assert.ErrorIs(t, service.Delete(ctx, 3), domain.ErrNotFound)

	repo.EXPECT().FindByID(ctx, 4).Return(&domain.Artwork{ID: 4}, nil)
	repo.EXPECT().Delete(ctx, 4).Return(false, errors.New("database error"))
	assert.EqualError(t, service.Delete(ctx, 4), "database error")
}
