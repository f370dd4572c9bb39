package messageservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	return New(repo), repo
}

func TestSubmit(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		req           dto.ContactRequestDTO
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Source defaults to contact form",
			req:  dto.ContactRequestDTO{Name: "Otieno", Email: "otieno@example.com", Message: "Hello"},
			prepareMock: func() {
				repo.EXPECT().Create(ctx, &domain.ContactMessage{
					Name: "Otieno", Email: "otieno@example.com", Message: "Hello",
					Source: domain.DefaultMessageSource, Status: domain.MessageNew,
				}).Return(&domain.ContactMessage{ID: 1, Source: domain.DefaultMessageSource}, nil)
			},
		},
		{
			name: "Explicit source kept",
			req:  dto.ContactRequestDTO{Name: "Otieno", Email: "otieno@example.com", Message: "Tickets?", Source: "exhibition_inquiry"},
			prepareMock: func() {
				repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
					assert.Equal(t, "exhibition_inquiry", m.Source)
					m.ID = 2
					return m, nil
				})
			},
		},
		{
			name:          "Empty message is rejected and nothing stored",
			req:           dto.ContactRequestDTO{Name: "Otieno", Email: "otieno@example.com", Message: "   "},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name: "Database error",
			req:  dto.ContactRequestDTO{Name: "Otieno", Email: "otieno@example.com", Message: "Hello"},
			prepareMock: func() {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			message, err := service.Submit(ctx, tt.req)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, message)
				if errors.Is(tt.expectedError, domain.ErrValidation) {
					assert.ErrorIs(t, err, domain.ErrValidation)
				}
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, message.ID)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		id            int
		status        string
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Marked as read",
			id:     1,
			status: "read",
			prepareMock: func() {
				repo.EXPECT().UpdateStatus(ctx, 1, "read").Return(true, nil)
			},
		},
		{
			name:          "Unknown status",
			id:            1,
			status:        "archived",
			prepareMock:   func() {},
			expectedError: domain.ErrInvalidStatus,
		},
		{
			name:   "Unknown message",
			id:     42,
			status: "replied",
			prepareMock: func() {
				repo.EXPECT().UpdateStatus(ctx, 42, "replied").Return(false, nil)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			err := service.UpdateStatus(ctx, tt.id, tt.status)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestList(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return([]domain.ContactMessage{{ID: 2}, {ID: 1}}, nil)
	messages, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
}
