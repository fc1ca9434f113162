package notification

import (
	"context"
	"log"
)

// Dispatcher delivers notifications triggered by booking and schedule-request
// state transitions. Delivery is fire-and-forget: the workflows call Notify
// after their own write has committed and a delivery failure must never fail
// or roll back that transition.
type Dispatcher interface {
	Notify(ctx context.Context, userID string, typ Type, title, message, relatedID string)
}

// Service exposes the read side of a user's notification feed.
type Service interface {
	Dispatcher
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, userID string, typ Type, title, message, relatedID string) {
	n := &Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		// Swallowed on purpose: the triggering transition already committed.
		log.Printf("notification dispatch failed (user=%s type=%s related=%s): %v",
			userID, typ, relatedID, err)
	}
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}
