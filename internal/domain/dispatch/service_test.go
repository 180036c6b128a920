package dispatch

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type repoStub struct {
	dispatch   *Dispatch
	lastStatus Status
	lastNotes  *string
}

func (r *repoStub) GetByID(context.Context, uuid.UUID) (*Dispatch, error) {
	return r.dispatch, nil
}

func (r *repoStub) Update(_ context.Context, _ uuid.UUID, status Status, notes *string, _ uuid.UUID) (*Dispatch, error) {
	r.lastStatus = status
	r.lastNotes = notes
	return r.dispatch, nil
}

func (r *repoStub) ListByReport(context.Context, uuid.UUID) ([]*WithAuthority, error) {
	return nil, nil
}

func (r *repoStub) ListByAuthority(context.Context, uuid.UUID, []Status, int, int) ([]*Dispatch, int, error) {
	return nil, 0, nil
}

func TestUpdateUnknownDispatch(t *testing.T) {
	svc := NewService(&repoStub{dispatch: nil})
	_, err := svc.Update(context.Background(), uuid.New(), &UpdateDispatchRequest{Status: "notified"}, uuid.New())
	if err != ErrDispatchNotFound {
		t.Fatalf("expected ErrDispatchNotFound, got %v", err)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(&repoStub{dispatch: &Dispatch{}})
	_, err := svc.Update(context.Background(), uuid.New(), &UpdateDispatchRequest{Status: "resolved"}, uuid.New())
	if err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdatePassesStatusAndNotes(t *testing.T) {
	repo := &repoStub{dispatch: &Dispatch{ID: uuid.New()}}
	svc := NewService(repo)

	notes := "on site"
	if _, err := svc.Update(context.Background(), uuid.New(), &UpdateDispatchRequest{Status: "acknowledged", Notes: &notes}, uuid.New()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastStatus != StatusAcknowledged {
		t.Errorf("status = %s, want acknowledged", repo.lastStatus)
	}
	if repo.lastNotes == nil || *repo.lastNotes != "on site" {
		t.Errorf("notes = %v, want 'on site'", repo.lastNotes)
	}
}

func TestListByAuthorityValidatesStatuses(t *testing.T) {
	svc := NewService(&repoStub{})
	_, _, err := svc.ListByAuthority(context.Background(), uuid.New(), []Status{"bogus"}, 10, 0)
	if err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
