package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type store interface {
	Insert(ctx context.Context, userID uuid.UUID, kind, title, body string) (*Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Service menyimpan notifikasi dan meneruskannya ke broker bila terkonfigurasi.
type Service struct {
	store     store
	publisher eventPublisher // nil bila AMQP tidak dikonfigurasi
}

// NewService membuat service notifikasi; publisher boleh nil.
func NewService(repo *Repository, publisher *Publisher) *Service {
	s := &Service{store: repo}
	if publisher != nil {
		s.publisher = publisher
	}
	return s
}

// Notify menyimpan notifikasi untuk user lalu menerbitkan event fan-out.
// Kegagalan broker tidak menggagalkan operasi; baris di Postgres tetap tercatat.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, title, body string) error {
	n, err := s.store.Insert(ctx, userID, kind, title, body)
	if err != nil {
		return err
	}

	if s.publisher != nil {
		event := Event{
			ID:        n.ID.String(),
			UserID:    n.UserID.String(),
			Kind:      n.Kind,
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("notification", n.ID.String()).Msg("publish event notifikasi gagal")
		}
	}

	return nil
}

// ListOwn mengembalikan notifikasi milik user.
func (s *Service) ListOwn(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.store.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead menandai satu notifikasi terbaca.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.store.MarkRead(ctx, id, userID)
}

// MarkAllRead menandai semua notifikasi user terbaca.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.store.MarkAllRead(ctx, userID)
}

// CountUnread menghitung notifikasi belum terbaca.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountUnread(ctx, userID)
}
