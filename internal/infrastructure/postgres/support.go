package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Fokku/flightbooker/internal/domain"
)

type ContactRepo struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

func (r *ContactRepo) Create(ctx context.Context, req domain.ContactRequest) (*domain.ContactSubmission, error) {
	var c domain.ContactSubmission
	err := r.db.GetContext(ctx, &c, `
		INSERT INTO contact_submissions (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, subject, message, created_at`,
		req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

type FAQRepo struct {
	db *sqlx.DB
}

func NewFAQRepo(db *sqlx.DB) *FAQRepo {
	return &FAQRepo{db: db}
}

func (r *FAQRepo) List(ctx context.Context) ([]domain.FAQ, error) {
	faqs := []domain.FAQ{}
	err := r.db.SelectContext(ctx, &faqs, `
		SELECT id, question, answer, position FROM faqs ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, classify(err)
	}
	return faqs, nil
}
