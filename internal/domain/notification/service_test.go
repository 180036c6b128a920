package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type repoStub struct {
	Repository

	created         *Notification
	createdChannels []Channel
	markSeenCalls   int
}

func (r *repoStub) Create(ctx context.Context, n *Notification, channels []Channel) ([]*Delivery, error) {
	r.created = n
	r.createdChannels = channels
	deliveries := make([]*Delivery, len(channels))
	for i, ch := range channels {
		deliveries[i] = &Delivery{
			ID:             uuid.New(),
			NotificationID: n.ID,
			Channel:        ch,
			Status:         DeliveryPending,
		}
	}
	return deliveries, nil
}

func (r *repoStub) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*SeenMark, error) {
	r.markSeenCalls++
	return nil, nil
}

type pusherStub struct {
	calls int
	err   error
}

func (p *pusherStub) PushToUserJSON(userID uuid.UUID, payload any) error {
	p.calls++
	return p.err
}

type enqueuerStub struct {
	jobs []*DeliveryJob
	err  error
}

func (e *enqueuerStub) EnqueueDelivery(ctx context.Context, job *DeliveryJob) error {
	e.jobs = append(e.jobs, job)
	return e.err
}

func validSendRequest() *SendRequest {
	return &SendRequest{
		UserID: uuid.New(),
		Type:   string(TypeSystem),
		Title:  "Maintenance window",
		Body:   "The service will be briefly unavailable tonight.",
	}
}

func TestSendDefaultsToInApp(t *testing.T) {
	repo := &repoStub{}
	pusher := &pusherStub{}
	enqueuer := &enqueuerStub{}
	svc := NewService(repo, pusher, enqueuer)

	if _, err := svc.Send(context.Background(), validSendRequest()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(repo.createdChannels) != 1 || repo.createdChannels[0] != ChannelInApp {
		t.Errorf("channels = %v, want [in_app]", repo.createdChannels)
	}
	if pusher.calls != 1 {
		t.Errorf("push calls = %d, want 1", pusher.calls)
	}
	if len(enqueuer.jobs) != 0 {
		t.Errorf("enqueued %d jobs, want 0", len(enqueuer.jobs))
	}
}

func TestSendEnqueuesOnlyExternalChannels(t *testing.T) {
	repo := &repoStub{}
	pusher := &pusherStub{}
	enqueuer := &enqueuerStub{}
	svc := NewService(repo, pusher, enqueuer)

	req := validSendRequest()
	req.Channels = []string{"in_app", "push", "email", "push"}

	if _, err := svc.Send(context.Background(), req); err != nil {
		t.Fatalf("Send: %v", err)
	}
	// duplicate push collapses before the repository sees it
	if len(repo.createdChannels) != 3 {
		t.Fatalf("channels = %v, want 3 distinct", repo.createdChannels)
	}
	if pusher.calls != 1 {
		t.Errorf("push calls = %d, want 1", pusher.calls)
	}
	if len(enqueuer.jobs) != 2 {
		t.Fatalf("enqueued %d jobs, want 2", len(enqueuer.jobs))
	}
	for _, job := range enqueuer.jobs {
		if !job.Channel.External() {
			t.Errorf("in_app channel leaked into the queue")
		}
		if job.DeliveryID == uuid.Nil || job.NotificationID == uuid.Nil {
			t.Error("job missing identifiers")
		}
	}
}

func TestSendSwallowsTransportFailures(t *testing.T) {
	repo := &repoStub{}
	pusher := &pusherStub{err: errors.New("socket buffer full")}
	enqueuer := &enqueuerStub{err: errors.New("broker unreachable")}
	svc := NewService(repo, pusher, enqueuer)

	req := validSendRequest()
	req.Channels = []string{"in_app", "sms"}

	n, err := svc.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("transport failures must not surface, got %v", err)
	}
	if n == nil || repo.created == nil {
		t.Fatal("notification should still be persisted")
	}
}

func TestSendWithoutTransportsSucceeds(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo, nil, nil)

	req := validSendRequest()
	req.Channels = []string{"in_app", "email"}

	if _, err := svc.Send(context.Background(), req); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestSendRejectsUnknownChannel(t *testing.T) {
	svc := NewService(&repoStub{}, nil, nil)

	req := validSendRequest()
	req.Channels = []string{"pigeon"}

	if _, err := svc.Send(context.Background(), req); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("err = %v, want ErrInvalidChannel", err)
	}
}

func TestSendRejectsUnknownType(t *testing.T) {
	svc := NewService(&repoStub{}, nil, nil)

	req := validSendRequest()
	req.Type = "marketing"

	if _, err := svc.Send(context.Background(), req); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
}

func TestMarkSeenEmptyBatchSkipsRepository(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo, nil, nil)

	marks, err := svc.MarkSeen(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if len(marks) != 0 {
		t.Errorf("marks = %v, want empty", marks)
	}
	if repo.markSeenCalls != 0 {
		t.Error("repository should not be called for an empty batch")
	}
}

func TestNotifyReportUpdateAddressesOwner(t *testing.T) {
	repo := &repoStub{}
	enqueuer := &enqueuerStub{}
	svc := NewService(repo, nil, enqueuer)

	owner := uuid.New()
	reportID := uuid.New()
	if err := svc.NotifyReportUpdate(context.Background(), owner, reportID, "approved"); err != nil {
		t.Fatalf("NotifyReportUpdate: %v", err)
	}
	if repo.created == nil || repo.created.UserID != owner {
		t.Fatal("notification not addressed to the owner")
	}
	if repo.created.Type != TypeReportUpdate {
		t.Errorf("type = %s, want report_update", repo.created.Type)
	}
	if !repo.created.RelatedReportID.Valid || repo.created.RelatedReportID.UUID != reportID {
		t.Error("related report id not set")
	}
	if len(enqueuer.jobs) != 1 || enqueuer.jobs[0].Channel != ChannelPush {
		t.Errorf("jobs = %v, want one push job", enqueuer.jobs)
	}
}
