package messagerepo

import (
	"context"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/pg"
	"go.uber.org/zap"
)

const (
	createQuery = `
		INSERT INTO contact_messages (name, email, phone, message, source, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	listQuery = `
		SELECT id, name, email, phone, message, source, status, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`
	updateStatusQuery = "UPDATE contact_messages SET status = $1 WHERE id = $2"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
	err := r.db.QueryRow(ctx, createQuery, m.Name, m.Email, m.Phone, m.Message, m.Source, m.Status).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		zap.L().Error("can't save contact message", zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := r.db.Query(ctx, listQuery)
	if err != nil {
		zap.L().Error("can't list contact messages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0)
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Source, &m.Status, &m.CreatedAt); err != nil {
			zap.L().Error("can't scan contact message", zap.Error(err))
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) (bool, error) {
	tag, err := r.db.Exec(ctx, updateStatusQuery, status, id)
	if err != nil {
		zap.L().Error("can't update contact message status", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
