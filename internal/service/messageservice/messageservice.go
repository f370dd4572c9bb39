package messageservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, message *domain.ContactMessage) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	UpdateStatus(ctx context.Context, id int, status string) (bool, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Submit(ctx context.Context, req dto.ContactRequestDTO) (*domain.ContactMessage, error) {
	message := &domain.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
		Source:  strings.TrimSpace(req.Source),
		Status:  domain.MessageNew,
	}
	if message.Name == "" || message.Email == "" || message.Message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", domain.ErrValidation)
	}
	if message.Source == "" {
		message.Source = domain.DefaultMessageSource
	}

	saved, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, err
	}
	zap.L().Info("contact message received", zap.Int("id", saved.ID), zap.String("source", saved.Source))
	return saved, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id int, status string) error {
	switch status {
	case domain.MessageNew, domain.MessageRead, domain.MessageReplied:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
