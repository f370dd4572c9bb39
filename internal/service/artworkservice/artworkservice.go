package artworkservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/internal/pg"
	"go.uber.org/zap"
)

type Repo interface {
	List(ctx context.Context) ([]domain.Artwork, error)
	FindByID(ctx context.Context, id int) (*domain.Artwork, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.Artwork, error)
	Create(ctx context.Context, artwork *domain.Artwork) (*domain.Artwork, error)
	Update(ctx context.Context, artwork *domain.Artwork) (bool, error)
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

func (s *Service) List(ctx context.Context) ([]domain.Artwork, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Artwork, error) {
	artwork, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artwork == nil {
		return nil, domain.ErrNotFound
	}
	return artwork, nil
}

func (s *Service) Create(ctx context.Context, req dto.ArtworkRequestDTO) (*domain.Artwork, error) {
	artwork := &domain.Artwork{Status: domain.ArtworkAvailable}
	apply(artwork, req)
	if err := validate(artwork); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		artwork.ImageURL = s.images.Save(*req.ImageURL)
	}
	created, err := s.repo.Create(ctx, artwork)
	if err != nil {
		if req.ImageURL != nil {
			s.images.Remove(artwork.ImageURL)
		}
		return nil, err
	}
	zap.L().Info("artwork created", zap.Int("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// Update merges the supplied fields onto the stored artwork under a row lock.
// A sold artwork stays sold.
func (s *Service) Update(ctx context.Context, id int, req dto.ArtworkRequestDTO) (*domain.Artwork, error) {
	var (
		artwork  *domain.Artwork
		oldImage string
	)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		a, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		oldImage = a.ImageURL
		wasSold := a.Status == domain.ArtworkSold

		apply(a, req)
		if err := validate(a); err != nil {
			return err
		}
		if wasSold && a.Status != domain.ArtworkSold {
			return fmt.Errorf("%w: a sold artwork can't be made available again", domain.ErrInvalidStatus)
		}
		if req.ImageURL != nil {
			a.ImageURL = s.images.Save(*req.ImageURL)
		}
		artwork = a

		ok, err := s.repo.Update(ctx, a)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if artwork != nil && artwork.ImageURL != oldImage {
			s.images.Remove(artwork.ImageURL)
		}
		return nil, err
	}
	if artwork.ImageURL != oldImage {
		s.images.Remove(oldImage)
	}
	return artwork, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	artwork, err := s.Get(ctx, id)
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
	s.images.Remove(artwork.ImageURL)
	zap.L().Info("artwork deleted", zap.Int("id", id))
	return nil
}

func apply(a *domain.Artwork, req dto.ArtworkRequestDTO) {
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Artist != nil {
		a.Artist = strings.TrimSpace(*req.Artist)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	if req.Dimensions != nil {
		a.Dimensions = *req.Dimensions
	}
	if req.Medium != nil {
		a.Medium = *req.Medium
	}
	if req.Year != nil {
		a.Year = req.Year
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
}

func validate(a *domain.Artwork) error {
	if a.Title == "" || a.Artist == "" {
		return fmt.Errorf("%w: title and artist are required", domain.ErrValidation)
	}
	if a.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if a.Status != domain.ArtworkAvailable && a.Status != domain.ArtworkSold {
		return fmt.Errorf("%w: status must be available or sold", domain.ErrInvalidStatus)
	}
	return nil
}
