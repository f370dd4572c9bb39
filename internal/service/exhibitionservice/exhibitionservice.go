package exhibitionservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/internal/pg"
	"go.uber.org/zap"
)

type Repo interface {
	List(ctx context.Context) ([]domain.Exhibition, error)
	FindByID(ctx context.Context, id int) (*domain.Exhibition, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.Exhibition, error)
	Create(ctx context.Context, exhibition *domain.Exhibition) (*domain.Exhibition, error)
	Update(ctx context.Context, exhibition *domain.Exhibition) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ImageStore interface {
	Save(data string) string
	Remove(url string)
}

type Service struct {
	repo      Repo
	txManager pg.TXManager
	images    ImageStore
}

func New(repo Repo, txManager pg.TXManager, images ImageStore) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		images:    images,
	}
}

// List returns exhibitions ordered by start date.
func (s *Service) List(ctx context.Context) ([]domain.Exhibition, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Exhibition, error) {
	exhibition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exhibition == nil {
		return nil, domain.ErrNotFound
	}
	return exhibition, nil
}

func (s *Service) Create(ctx context.Context, req dto.ExhibitionRequestDTO) (*domain.Exhibition, error) {
	if req.Title == nil || req.Location == nil || req.StartDate == nil || req.EndDate == nil ||
		req.TicketPrice == nil || req.TotalSlots == nil {
		return nil, fmt.Errorf("%w: title, location, dates, ticketPrice and totalSlots are required", domain.ErrValidation)
	}
	exhibition := &domain.Exhibition{Status: domain.ExhibitionUpcoming}
	if err := apply(exhibition, req); err != nil {
		return nil, err
	}
	if req.AvailableSlots == nil {
		exhibition.AvailableSlots = exhibition.TotalSlots
	}
	if err := validate(exhibition); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		exhibition.ImageURL = s.images.Save(*req.ImageURL)
	}
	created, err := s.repo.Create(ctx, exhibition)
	if err != nil {
		if req.ImageURL != nil {
			s.images.Remove(exhibition.ImageURL)
		}
		return nil, err
	}
	zap.L().Info("exhibition created", zap.Int("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// Update merges the supplied fields onto the stored exhibition. The row stays
// locked while seats are recomputed, so a concurrent booking is never undone.
// Without an explicit availableSlots a change of totalSlots moves the free
// seats by the same amount.
func (s *Service) Update(ctx context.Context, id int, req dto.ExhibitionRequestDTO) (*domain.Exhibition, error) {
	var (
		exhibition *domain.Exhibition
		oldImage   string
	)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		e, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		oldImage = e.ImageURL
		oldTotal := e.TotalSlots

		if err := apply(e, req); err != nil {
			return err
		}
		if req.TotalSlots != nil && req.AvailableSlots == nil {
			e.AvailableSlots += e.TotalSlots - oldTotal
		}
		if err := validate(e); err != nil {
			return err
		}
		if req.ImageURL != nil {
			e.ImageURL = s.images.Save(*req.ImageURL)
		}
		exhibition = e

		ok, err := s.repo.Update(ctx, e)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if exhibition != nil && exhibition.ImageURL != oldImage {
			s.images.Remove(exhibition.ImageURL)
		}
		return nil, err
	}
	if exhibition.ImageURL != oldImage {
		s.images.Remove(oldImage)
	}
	return exhibition, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	exhibition, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.images.Remove(exhibition.ImageURL)
	zap.L().Info("exhibition deleted", zap.Int("id", id))
	return nil
}

// apply copies the supplied fields. Images are stored by the caller once the
// result validates.
func apply(e *domain.Exhibition, req dto.ExhibitionRequestDTO) error {
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		d, err := ParseDate(*req.StartDate)
		if err != nil {
			return err
		}
		e.StartDate = d
	}
	if req.EndDate != nil {
		d, err := ParseDate(*req.EndDate)
		if err != nil {
			return err
		}
		e.EndDate = d
	}
	if req.TicketPrice != nil {
		e.TicketPrice = *req.TicketPrice
	}
	if req.TotalSlots != nil {
		e.TotalSlots = *req.TotalSlots
	}
	if req.AvailableSlots != nil {
		e.AvailableSlots = *req.AvailableSlots
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	return nil
}

// ParseDate accepts YYYY-MM-DD as well as a full RFC 3339 timestamp, keeping
// only the calendar date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(dto.DateLayout, value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", domain.ErrValidation, value)
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func validate(e *domain.Exhibition) error {
	if e.Title == "" || e.Location == "" {
		return fmt.Errorf("%w: title and location are required", domain.ErrValidation)
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", domain.ErrValidation)
	}
	if e.TicketPrice.IsNegative() {
		return fmt.Errorf("%w: ticketPrice must not be negative", domain.ErrValidation)
	}
	if e.TotalSlots < 0 || e.AvailableSlots < 0 || e.AvailableSlots > e.TotalSlots {
		return fmt.Errorf("%w: availableSlots must be between 0 and totalSlots", domain.ErrValidation)
	}
	switch e.Status {
	case domain.ExhibitionUpcoming, domain.ExhibitionOngoing, domain.ExhibitionPast:
	default:
		return fmt.Errorf("%w: status must be upcoming, ongoing or past", domain.ErrInvalidStatus)
	}
	return nil
}
