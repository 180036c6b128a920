package dispatch

import (
	"context"

	"github.com/google/uuid"
)

// Service handles dispatch logic
type Service struct {
	repo Repository
}

// NewService creates dispatch service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single dispatch
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Dispatch, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDispatchNotFound
	}
	return d, nil
}

// Update transitions a dispatch to the requested status, stamping the
// matching timestamp. Illegal-looking transitions are allowed on purpose;
// see Transition on the entity.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateDispatchRequest, actorID uuid.UUID) (*Dispatch, error) {
	status := Status(req.Status)
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	d, err := s.repo.Update(ctx, id, status, req.Notes, actorID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDispatchNotFound
	}
	return d, nil
}

// ListByAuthority returns an authority's dispatch queue
func (s *Service) ListByAuthority(ctx context.Context, authorityID uuid.UUID, statuses []Status, limit, offset int) ([]*Dispatch, int, error) {
	for _, st := range statuses {
		if !ValidStatus(st) {
			return nil, 0, ErrInvalidStatus
		}
	}
	return s.repo.ListByAuthority(ctx, authorityID, statuses, limit, offset)
}
