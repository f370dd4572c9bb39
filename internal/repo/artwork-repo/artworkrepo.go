package artworkrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	columns = "id, title, artist, description, price, image_url, dimensions, medium, year, status, created_at"

	listQuery     = "SELECT " + columns + " FROM artworks ORDER BY created_at DESC, id DESC"
	findByIDQuery = "SELECT " + columns + " FROM artworks WHERE id = $1"
	findForUpdate = findByIDQuery + " FOR UPDATE"
	createQuery   = `
		INSERT INTO artworks (title, artist, description, price, image_url, dimensions, medium, year, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	updateQuery = `
		UPDATE artworks
		SET title = $1, artist = $2, description = $3, price = $4, image_url = $5,
			dimensions = $6, medium = $7, year = $8, status = $9
		WHERE id = $10
	`
	deleteQuery   = "DELETE FROM artworks WHERE id = $1"
	markSoldQuery = "UPDATE artworks SET status = 'sold' WHERE id = $1 AND status = 'available'"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*domain.Artwork, error) {
	var a domain.Artwork
	err := row.Scan(&a.ID, &a.Title, &a.Artist, &a.Description, &a.Price, &a.ImageURL,
		&a.Dimensions, &a.Medium, &a.Year, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Artwork, error) {
	rows, err := r.db.Query(ctx, listQuery)
	if err != nil {
		zap.L().Error("can't list artworks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	artworks := make([]domain.Artwork, 0)
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan artwork", zap.Error(err))
			return nil, err
		}
		artworks = append(artworks, *a)
	}
	return artworks, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Artwork, error) {
	return r.find(ctx, findByIDQuery, id)
}

// FindByIDForUpdate locks the artwork until the surrounding transaction ends.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int) (*domain.Artwork, error) {
	return r.find(ctx, findForUpdate, id)
}

func (r *Repository) find(ctx context.Context, query string, id int) (*domain.Artwork, error) {
	a, err := scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find artwork", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *Repository) Create(ctx context.Context, a *domain.Artwork) (*domain.Artwork, error) {
	err := r.db.QueryRow(ctx, createQuery,
		a.Title, a.Artist, a.Description, a.Price, a.ImageURL, a.Dimensions, a.Medium, a.Year, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		zap.L().Error("can't save artwork", zap.Error(err))
		return nil, err
	}
	return a, nil
}

// Update writes every column of a. It reports false when the row is gone.
func (r *Repository) Update(ctx context.Context, a *domain.Artwork) (bool, error) {
	tag, err := r.db.Exec(ctx, updateQuery,
		a.Title, a.Artist, a.Description, a.Price, a.ImageURL, a.Dimensions, a.Medium, a.Year, a.Status, a.ID,
	)
	if err != nil {
		zap.L().Error("can't update artwork", zap.Int("id", a.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		zap.L().Error("can't delete artwork", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkSold flips an available artwork to sold. False means it was already sold.
func (r *Repository) MarkSold(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, markSoldQuery, id)
	if err != nil {
		zap.L().Error("can't mark artwork sold", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
