package support

import (
	"context"
	"log/slog"

	"github.com/Fokku/flightbooker/internal/domain"
)

type ContactStore interface {
	Create(ctx context.Context, req domain.ContactRequest) (*domain.ContactSubmission, error)
}

type FAQStore interface {
	List(ctx context.Context) ([]domain.FAQ, error)
}

type Service interface {
	SubmitContact(ctx context.Context, req domain.ContactRequest) (*domain.ContactSubmission, error)
	ListFAQs(ctx context.Context) ([]domain.FAQ, error)
}

type service struct {
	contacts ContactStore
	faqs     FAQStore
}

func NewService(contacts ContactStore, faqs FAQStore) Service {
	return &service{contacts: contacts, faqs: faqs}
}

func (s *service) SubmitContact(ctx context.Context, req domain.ContactRequest) (*domain.ContactSubmission, error) {
	c, err := s.contacts.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Info("contact submission received", "id", c.ID, "email", c.Email)
	return c, nil
}

func (s *service) ListFAQs(ctx context.Context) ([]domain.FAQ, error) {
	return s.faqs.List(ctx)
}
