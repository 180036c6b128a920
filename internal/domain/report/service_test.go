package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/domain/audit"
	"github.com/spotnsend/spotnsend-api/internal/domain/dispatch"
)

type repoStub struct {
	Repository

	createdReport *Report
	createdMedia  []*Media
	createdFanout *FanoutParams
	dispatched    int

	updated      *Report
	nearbyParams NearbyParams
}

func (r *repoStub) Create(ctx context.Context, rep *Report, media []*Media, fanout *FanoutParams) (int, error) {
	r.createdReport = rep
	r.createdMedia = media
	r.createdFanout = fanout
	return r.dispatched, nil
}

func (r *repoStub) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.updated, nil
}

func (r *repoStub) UpdateStatus(ctx context.Context, id uuid.UUID, status, priority *string) (*Report, error) {
	if r.updated == nil {
		return nil, nil
	}
	if status != nil {
		r.updated.Status = Status(*status)
	}
	if priority != nil {
		r.updated.Priority = Priority(*priority)
	}
	return r.updated, nil
}

func (r *repoStub) FindNearby(ctx context.Context, p NearbyParams) ([]*Nearby, error) {
	r.nearbyParams = p
	return nil, nil
}

type auditStub struct {
	table   string
	record  string
	changes json.RawMessage
	calls   int
}

func (a *auditStub) Record(ctx context.Context, tableName, recordID string, userID uuid.NullUUID, action string, changes json.RawMessage) error {
	a.table = tableName
	a.record = recordID
	a.changes = changes
	a.calls++
	return nil
}

func (a *auditStub) List(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Event, int, error) {
	return nil, 0, nil
}

type notifierStub struct {
	calls  int
	status string
	err    error
}

func (n *notifierStub) NotifyReportUpdate(ctx context.Context, userID, reportID uuid.UUID, status string) error {
	n.calls++
	n.status = status
	return n.err
}

type publisherStub struct {
	city    string
	payload interface{}
	calls   int
}

func (p *publisherStub) PushToCityJSON(city string, payload interface{}) error {
	p.city = city
	p.payload = payload
	p.calls++
	return nil
}

func validCreateRequest() *CreateReportRequest {
	return &CreateReportRequest{
		CategoryID:  3,
		Description: "broken streetlight on the corner",
		Latitude:    24.7136,
		Longitude:   46.6753,
		City:        "Riyadh",
	}
}

func TestCreatePeopleScopeSkipsFanout(t *testing.T) {
	repo := &repoStub{}
	svc := newTestService(repo, nil, nil, nil)

	req := validCreateRequest()
	req.NotifyScope = "people"

	rep, dispatched, err := svc.Create(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.createdFanout != nil {
		t.Error("expected no fanout for people scope")
	}
	if dispatched != 0 {
		t.Errorf("dispatched = %d, want 0", dispatched)
	}
	if rep.Status != StatusSubmitted {
		t.Errorf("status = %s, want submitted", rep.Status)
	}
	if rep.Priority != PriorityNormal {
		t.Errorf("priority = %s, want normal", rep.Priority)
	}
}

func TestCreateBothScopeFansOut(t *testing.T) {
	repo := &repoStub{dispatched: 4}
	svc := newTestService(repo, nil, nil, nil)

	req := validCreateRequest()
	req.NotifyScope = "both"

	_, dispatched, err := svc.Create(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fanout := repo.createdFanout
	if fanout == nil {
		t.Fatal("expected fanout for both scope")
	}
	if fanout.RadiusMeters != DefaultDispatchRadiusMeters {
		t.Errorf("radius = %d, want %d", fanout.RadiusMeters, DefaultDispatchRadiusMeters)
	}
	if fanout.Limit != MaxDispatchCandidates {
		t.Errorf("limit = %d, want %d", fanout.Limit, MaxDispatchCandidates)
	}
	if len(fanout.CategoryIDs) != 1 || fanout.CategoryIDs[0] != req.CategoryID {
		t.Errorf("category ids = %v, want [%d]", fanout.CategoryIDs, req.CategoryID)
	}
	if fanout.Channel != string(dispatch.ChannelInApp) {
		t.Errorf("channel = %s, want in_app", fanout.Channel)
	}
	if dispatched != 4 {
		t.Errorf("dispatched = %d, want 4", dispatched)
	}
}

func TestCreateUsesAlertRadiusForFanout(t *testing.T) {
	repo := &repoStub{}
	svc := newTestService(repo, nil, nil, nil)

	req := validCreateRequest()
	req.NotifyScope = "government"
	radius := 12000
	req.AlertRadiusMeters = &radius

	if _, _, err := svc.Create(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.createdFanout == nil || repo.createdFanout.RadiusMeters != 12000 {
		t.Fatalf("fanout = %+v, want radius 12000", repo.createdFanout)
	}
}

func TestCreateRejectsTooManyMedia(t *testing.T) {
	repo := &repoStub{}
	svc := newTestService(repo, nil, nil, nil)

	req := validCreateRequest()
	for i := 0; i < MaxMediaPerReport+1; i++ {
		req.Media = append(req.Media, MediaInput{URL: "https://cdn.example.com/a.jpg"})
	}

	_, _, err := svc.Create(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrTooManyMedia) {
		t.Fatalf("err = %v, want ErrTooManyMedia", err)
	}
	if repo.createdReport != nil {
		t.Error("repository should not be called")
	}
}

func TestCreateRejectsBadCoordinates(t *testing.T) {
	svc := newTestService(&repoStub{}, nil, nil, nil)

	req := validCreateRequest()
	req.Latitude = 91

	if _, _, err := svc.Create(context.Background(), uuid.New(), req); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestUpdateStatusRecordsNotes(t *testing.T) {
	repo := &repoStub{updated: &Report{ID: uuid.New(), Status: StatusSubmitted}}
	audit := &auditStub{}
	notifier := &notifierStub{}
	svc := newTestService(repo, audit, notifier, nil)

	notes := "duplicate of an earlier report"
	_, err := svc.UpdateStatus(context.Background(), repo.updated.ID,
		&UpdateReportStatusRequest{Notes: &notes}, uuid.New())
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if audit.calls != 1 {
		t.Fatalf("audit calls = %d, want 1", audit.calls)
	}
	if audit.table != "reports" || audit.record != repo.updated.ID.String() {
		t.Errorf("audit target = (%s, %s)", audit.table, audit.record)
	}
	if notifier.calls != 0 {
		t.Error("notifier should not fire without a status change")
	}
}

func TestUpdateStatusAnnouncesChange(t *testing.T) {
	rep := &Report{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: StatusSubmitted,
		City:   sql.NullString{String: "Jeddah", Valid: true},
	}
	repo := &repoStub{updated: rep}
	notifier := &notifierStub{}
	publisher := &publisherStub{}
	svc := newTestService(repo, &auditStub{}, notifier, publisher)

	status := string(StatusApproved)
	_, err := svc.UpdateStatus(context.Background(), rep.ID,
		&UpdateReportStatusRequest{Status: &status}, uuid.New())
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if notifier.calls != 1 || notifier.status != "approved" {
		t.Errorf("notifier calls = %d status = %s", notifier.calls, notifier.status)
	}
	if publisher.calls != 1 || publisher.city != "Jeddah" {
		t.Errorf("publisher calls = %d city = %s", publisher.calls, publisher.city)
	}
}

func TestUpdateStatusSwallowsNotifierError(t *testing.T) {
	rep := &Report{ID: uuid.New(), UserID: uuid.New(), Status: StatusSubmitted}
	repo := &repoStub{updated: rep}
	notifier := &notifierStub{err: errors.New("broker down")}
	svc := newTestService(repo, &auditStub{}, notifier, nil)

	status := string(StatusRejected)
	_, err := svc.UpdateStatus(context.Background(), rep.ID,
		&UpdateReportStatusRequest{Status: &status}, uuid.New())
	if err != nil {
		t.Fatalf("notifier failure must not surface, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&repoStub{}, nil, nil, nil)

	status := "closed"
	_, err := svc.UpdateStatus(context.Background(), uuid.New(),
		&UpdateReportStatusRequest{Status: &status}, uuid.New())
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestNearbyClampsRadius(t *testing.T) {
	repo := &repoStub{}
	svc := newTestService(repo, nil, nil, nil)

	cases := []struct {
		in, want int
	}{
		{1, MinNearbyRadiusMeters},
		{999999, MaxNearbyRadiusMeters},
		{2500, 2500},
	}
	for _, tc := range cases {
		_, err := svc.Nearby(context.Background(), NearbyParams{
			Latitude: 24.7, Longitude: 46.7, RadiusMeters: tc.in, Limit: 10,
		})
		if err != nil {
			t.Fatalf("Nearby(%d): %v", tc.in, err)
		}
		if repo.nearbyParams.RadiusMeters != tc.want {
			t.Errorf("radius %d clamped to %d, want %d", tc.in, repo.nearbyParams.RadiusMeters, tc.want)
		}
	}
}

func newTestService(repo *repoStub, auditRepo *auditStub, notifier *notifierStub, publisher *publisherStub) *Service {
	svc := &Service{repo: repo}
	if auditRepo != nil {
		svc.auditRepo = auditRepo
	}
	if notifier != nil {
		svc.notifier = notifier
	}
	if publisher != nil {
		svc.publisher = publisher
	}
	return svc
}
