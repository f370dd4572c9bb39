package exhibitionrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	columns = "id, title, description, location, start_date, end_date, ticket_price, image_url, total_slots, available_slots, status, created_at"

	listQuery     = "SELECT " + columns + " FROM exhibitions ORDER BY start_date ASC, id ASC"
	findByIDQuery = "SELECT " + columns + " FROM exhibitions WHERE id = $1"
	findForUpdate = findByIDQuery + " FOR UPDATE"
	createQuery   = `
		INSERT INTO exhibitions (title, description, location, start_date, end_date, ticket_price, image_url, total_slots, available_slots, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	updateQuery = `
		UPDATE exhibitions
		SET title = $1, description = $2, location = $3, start_date = $4, end_date = $5, ticket_price = $6,
			image_url = $7, total_slots = $8, available_slots = $9, status = $10
		WHERE id = $11
	`
	deleteQuery    = "DELETE FROM exhibitions WHERE id = $1"
	decrementQuery = `
		UPDATE exhibitions
		SET available_slots = available_slots - $1
		WHERE id = $2 AND available_slots >= $1
	`
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

func scan(row scanner) (*domain.Exhibition, error) {
	var e domain.Exhibition
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDate, &e.EndDate, &e.TicketPrice,
		&e.ImageURL, &e.TotalSlots, &e.AvailableSlots, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Exhibition, error) {
	rows, err := r.db.Query(ctx, listQuery)
	if err != nil {
		zap.L().Error("can't list exhibitions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	exhibitions := make([]domain.Exhibition, 0)
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan exhibition", zap.Error(err))
			return nil, err
		}
		exhibitions = append(exhibitions, *e)
	}
	return exhibitions, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Exhibition, error) {
	return r.find(ctx, findByIDQuery, id)
}

// FindByIDForUpdate locks the exhibition, and so its seat count, until the
// surrounding transaction ends.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int) (*domain.Exhibition, error) {
	return r.find(ctx, findForUpdate, id)
}

func (r *Repository) find(ctx context.Context, query string, id int) (*domain.Exhibition, error) {
	e, err := scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find exhibition", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (r *Repository) Create(ctx context.Context, e *domain.Exhibition) (*domain.Exhibition, error) {
	err := r.db.QueryRow(ctx, createQuery,
		e.Title, e.Description, e.Location, e.StartDate, e.EndDate, e.TicketPrice,
		e.ImageURL, e.TotalSlots, e.AvailableSlots, e.Status,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		zap.L().Error("can't save exhibition", zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (r *Repository) Update(ctx context.Context, e *domain.Exhibition) (bool, error) {
	tag, err := r.db.Exec(ctx, updateQuery,
		e.Title, e.Description, e.Location, e.StartDate, e.EndDate, e.TicketPrice,
		e.ImageURL, e.TotalSlots, e.AvailableSlots, e.Status, e.ID,
	)
	if err != nil {
		zap.L().Error("can't update exhibition", zap.Int("id", e.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("exhibition %d has tickets: %w", id, domain.ErrInUse)
		}
		zap.L().Error("can't delete exhibition", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DecrementSlots takes slots seats in one statement. It reports false, and
// changes nothing, when fewer seats are left.
func (r *Repository) DecrementSlots(ctx context.Context, id, slots int) (bool, error) {
	tag, err := r.db.Exec(ctx, decrementQuery, slots, id)
	if err != nil {
		zap.L().Error("can't decrement exhibition slots", zap.Int("id", id), zap.Int("slots", slots), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
