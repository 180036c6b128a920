package admin

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/domain/audit"
	"github.com/spotnsend/spotnsend-api/internal/domain/user"
)

// Service handles moderation logic
type Service struct {
	repo      Repository
	userRepo  user.Repository
	auditRepo audit.Repository
}

// NewService creates admin service
func NewService(repo Repository, userRepo user.Repository, auditRepo audit.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo, auditRepo: auditRepo}
}

// ListPendingVerifications returns the review queue, oldest first
func (s *Service) ListPendingVerifications(ctx context.Context, limit, offset int) ([]*VerificationWithUser, int, error) {
	return s.repo.ListPending(ctx, limit, offset)
}

// ReviewVerification settles a pending verification. Approval verifies the
// applicant's account, rejection suspends it; both are recorded in the audit
// trail under the reviewer's id.
func (s *Service) ReviewVerification(ctx context.Context, id, reviewerID uuid.UUID, req *ReviewRequest) (*Verification, error) {
	decision := VerificationStatus(req.Decision)
	if decision != VerificationApproved && decision != VerificationRejected {
		return nil, ErrInvalidDecision
	}

	reviewed, err := s.repo.Review(ctx, id, reviewerID, decision, req.Notes)
	if err != nil {
		return nil, err
	}
	if reviewed == nil {
		return nil, ErrVerificationNotFound
	}

	changes, _ := json.Marshal(map[string]string{"decision": req.Decision})
	err = s.auditRepo.Record(ctx, "account_verifications", id.String(),
		uuid.NullUUID{UUID: reviewerID, Valid: true}, "review", changes)
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// ListUsers returns users with activity counts for the moderation listing
func (s *Service) ListUsers(ctx context.Context, status, role string, limit, offset int) ([]*user.AdminRow, int, error) {
	if status != "" && !user.ValidAccountStatus(user.AccountStatus(status)) {
		return nil, 0, user.ErrInvalidStatus
	}
	return s.userRepo.ListForAdmin(ctx, status, role, limit, offset)
}

// UpdateUserStatus moves a user's account standing and records the change
func (s *Service) UpdateUserStatus(ctx context.Context, id, actorID uuid.UUID, req *UpdateUserStatusRequest) (*user.User, error) {
	status := user.AccountStatus(req.Status)
	if !user.ValidAccountStatus(status) {
		return nil, user.ErrInvalidStatus
	}

	u, err := s.userRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	payload := map[string]string{"account_status": req.Status}
	if req.Notes != nil && *req.Notes != "" {
		payload["notes"] = *req.Notes
	}
	changes, _ := json.Marshal(payload)
	err = s.auditRepo.Record(ctx, "users", id.String(),
		uuid.NullUUID{UUID: actorID, Valid: true}, "update", changes)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListAuditEvents returns the audit trail, newest first, optionally scoped
// to one table or record.
func (s *Service) ListAuditEvents(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Event, int, error) {
	return s.auditRepo.List(ctx, tableName, recordID, limit, offset)
}
