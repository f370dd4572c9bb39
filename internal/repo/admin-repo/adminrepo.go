package adminrepo

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
	findByEmailQuery = "SELECT id, name, email, password_hash, created_at FROM admins WHERE email = $1"
	createQuery      = `
		INSERT INTO admins (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
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

func (repo *Repository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin
	err := repo.db.QueryRow(ctx, findByEmailQuery, email).
		Scan(&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find admin", zap.Error(err))
		return nil, err
	}
	return &admin, nil
}

func (repo *Repository) Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	err := repo.db.QueryRow(ctx, createQuery, admin.Name, admin.Email, admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, admin.Email)
		}
		zap.L().Error("can't save admin", zap.Error(err))
		return nil, err
	}
	return admin, nil
}
