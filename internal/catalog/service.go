package catalog

import (
	"context"
	"strings"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	HourlyPrice float64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	HourlyPrice *float64
}

type Catalog interface {
	Create(ctx context.Context, req CreateRequest) (*Service, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context, filter Filter) ([]*Service, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, callerID string) (*Service, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) Catalog {
	return &catalog{repo: repo}
}

func (s *catalog) Create(ctx context.Context, req CreateRequest) (*Service, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.HourlyPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	svc := &Service{
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		HourlyPrice: req.HourlyPrice,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalog) GetByID(ctx context.Context, id string) (*Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalog) List(ctx context.Context, filter Filter) ([]*Service, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *catalog) Update(ctx context.Context, id string, req UpdateRequest, callerID string) (*Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.HourlyPrice != nil {
		// Price changes never touch existing bookings: their total is
		// computed once at creation time.
		if *req.HourlyPrice <= 0 {
			return nil, ErrInvalidPrice
		}
		svc.HourlyPrice = *req.HourlyPrice
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalog) Delete(ctx context.Context, id string, callerID string) error {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if svc.OwnerID != callerID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}
