package admin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/domain/audit"
	"github.com/spotnsend/spotnsend-api/internal/domain/user"
)

type repoStub struct {
	reviewed    *Verification
	reviewErr   error
	decision    VerificationStatus
	reviewCalls int
}

func (r *repoStub) ListPending(ctx context.Context, limit, offset int) ([]*VerificationWithUser, int, error) {
	return nil, 0, nil
}

func (r *repoStub) Review(ctx context.Context, id, reviewerID uuid.UUID, decision VerificationStatus, notes *string) (*Verification, error) {
	r.reviewCalls++
	r.decision = decision
	if r.reviewErr != nil {
		return nil, r.reviewErr
	}
	return r.reviewed, nil
}

type userRepoStub struct {
	user.Repository

	updated      *user.User
	updateStatus user.AccountStatus
}

func (u *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return u.updated, nil
}

func (u *userRepoStub) ListForAdmin(ctx context.Context, status, role string, limit, offset int) ([]*user.AdminRow, int, error) {
	return nil, 0, nil
}

func (u *userRepoStub) UpdateStatus(ctx context.Context, id uuid.UUID, status user.AccountStatus) (*user.User, error) {
	u.updateStatus = status
	return u.updated, nil
}

type auditStub struct {
	table  string
	action string
	calls  int
}

func (a *auditStub) Record(ctx context.Context, tableName, recordID string, userID uuid.NullUUID, action string, changes json.RawMessage) error {
	a.table = tableName
	a.action = action
	a.calls++
	return nil
}

func (a *auditStub) List(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Event, int, error) {
	return nil, 0, nil
}

func TestReviewVerificationApprove(t *testing.T) {
	repo := &repoStub{reviewed: &Verification{ID: uuid.New(), Status: VerificationApproved}}
	auditRepo := &auditStub{}
	svc := NewService(repo, &userRepoStub{}, auditRepo)

	_, err := svc.ReviewVerification(context.Background(), repo.reviewed.ID, uuid.New(),
		&ReviewRequest{Decision: "approved"})
	if err != nil {
		t.Fatalf("ReviewVerification: %v", err)
	}
	if repo.decision != VerificationApproved {
		t.Errorf("decision = %s, want approved", repo.decision)
	}
	if auditRepo.calls != 1 || auditRepo.table != "account_verifications" || auditRepo.action != "review" {
		t.Errorf("audit = %+v", auditRepo)
	}
}

func TestReviewVerificationRejectsBadDecision(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo, &userRepoStub{}, &auditStub{})

	_, err := svc.ReviewVerification(context.Background(), uuid.New(), uuid.New(),
		&ReviewRequest{Decision: "maybe"})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("err = %v, want ErrInvalidDecision", err)
	}
	if repo.reviewCalls != 0 {
		t.Error("repository should not be called")
	}
}

func TestReviewVerificationAlreadyReviewed(t *testing.T) {
	repo := &repoStub{reviewErr: ErrAlreadyReviewed}
	svc := NewService(repo, &userRepoStub{}, &auditStub{})

	_, err := svc.ReviewVerification(context.Background(), uuid.New(), uuid.New(),
		&ReviewRequest{Decision: "rejected"})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestReviewVerificationNotFound(t *testing.T) {
	svc := NewService(&repoStub{}, &userRepoStub{}, &auditStub{})

	_, err := svc.ReviewVerification(context.Background(), uuid.New(), uuid.New(),
		&ReviewRequest{Decision: "approved"})
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("err = %v, want ErrVerificationNotFound", err)
	}
}

func TestUpdateUserStatusRecordsAudit(t *testing.T) {
	userRepo := &userRepoStub{updated: &user.User{ID: uuid.New()}}
	auditRepo := &auditStub{}
	svc := NewService(&repoStub{}, userRepo, auditRepo)

	_, err := svc.UpdateUserStatus(context.Background(), userRepo.updated.ID, uuid.New(),
		&UpdateUserStatusRequest{Status: "suspended"})
	if err != nil {
		t.Fatalf("UpdateUserStatus: %v", err)
	}
	if userRepo.updateStatus != user.StatusSuspended {
		t.Errorf("status = %s, want suspended", userRepo.updateStatus)
	}
	if auditRepo.calls != 1 || auditRepo.table != "users" {
		t.Errorf("audit = %+v", auditRepo)
	}
}

func TestUpdateUserStatusRejectsUnknown(t *testing.T) {
	svc := NewService(&repoStub{}, &userRepoStub{}, &auditStub{})

	_, err := svc.UpdateUserStatus(context.Background(), uuid.New(), uuid.New(),
		&UpdateUserStatusRequest{Status: "banned"})
	if !errors.Is(err, user.ErrInvalidStatus) {
		t.Fatalf("err = %v, want user.ErrInvalidStatus", err)
	}
}
