package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spotnsend/spotnsend-api/internal/domain/audit"
	"github.com/spotnsend/spotnsend-api/internal/domain/dispatch"
	"github.com/spotnsend/spotnsend-api/internal/pkg/geo"
)

const (
	// DefaultDispatchRadiusMeters is used when the reporter sets no alert radius.
	DefaultDispatchRadiusMeters = 5000
	// MaxDispatchCandidates caps the authority fanout per report.
	MaxDispatchCandidates = 10
	// MaxMediaPerReport caps attachments accepted at creation.
	MaxMediaPerReport = 5

	// MinNearbyRadiusMeters / MaxNearbyRadiusMeters bound proximity queries
	// over reports.
	MinNearbyRadiusMeters = 50
	MaxNearbyRadiusMeters = 50000
)

// Notifier tells the report owner about a moderation update. Failures are
// logged, never surfaced to the caller.
type Notifier interface {
	NotifyReportUpdate(ctx context.Context, userID, reportID uuid.UUID, status string) error
}

// CityPublisher pushes realtime events to everyone subscribed to a locality
type CityPublisher interface {
	PushToCityJSON(city string, payload interface{}) error
}

// MediaWaker nudges the thumbnail worker after media rows land, so fresh
// uploads get thumbnails without waiting for the next poll.
type MediaWaker interface {
	Wake(ctx context.Context)
}

// Service handles report logic
type Service struct {
	repo         Repository
	dispatchRepo dispatch.Repository
	auditRepo    audit.Repository
	notifier     Notifier
	publisher    CityPublisher
	waker        MediaWaker
}

// NewService creates report service. notifier, publisher, and waker may be
// nil; the service then skips the corresponding side effects.
func NewService(repo Repository, dispatchRepo dispatch.Repository, auditRepo audit.Repository, notifier Notifier, publisher CityPublisher, waker MediaWaker) *Service {
	return &Service{
		repo:         repo,
		dispatchRepo: dispatchRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		publisher:    publisher,
		waker:        waker,
	}
}

// Create submits a report. When the scope includes government, nearby
// authorities handling the report's category get a pending dispatch inside
// the same transaction. Returns the stored report and the fanout size.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateReportRequest) (*Report, int, error) {
	if !geo.ValidLatLon(req.Latitude, req.Longitude) {
		return nil, 0, ErrInvalidLocation
	}
	if len(req.Media) > MaxMediaPerReport {
		return nil, 0, ErrTooManyMedia
	}

	scope := ScopePeople
	if req.NotifyScope != "" {
		scope = NotifyScope(req.NotifyScope)
	}
	priority := PriorityNormal
	if req.Priority != "" {
		priority = Priority(req.Priority)
	}

	rep := &Report{
		ID:           uuid.New(),
		UserID:       userID,
		CategoryID:   req.CategoryID,
		Status:       StatusSubmitted,
		Priority:     priority,
		NotifyScope:  scope,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: nullString(req.LocationName),
		Address:      nullString(req.Address),
		City:         nullString(req.City),
	}
	if req.SubcategoryID != nil {
		rep.SubcategoryID = sql.NullInt64{Int64: *req.SubcategoryID, Valid: true}
	}
	if req.AlertRadiusMeters != nil {
		rep.AlertRadiusMeters = sql.NullInt64{Int64: int64(*req.AlertRadiusMeters), Valid: true}
	}

	media := make([]*Media, 0, len(req.Media))
	for _, in := range req.Media {
		kind := MediaImage
		if in.Kind != "" {
			kind = MediaType(in.Kind)
		}
		m := &Media{
			ID:         uuid.New(),
			ReportID:   rep.ID,
			MediaType:  kind,
			StorageURL: in.URL,
			Metadata:   in.Metadata,
			IsCover:    in.IsCover,
		}
		if in.ThumbnailURL != "" {
			m.ThumbnailURL = sql.NullString{String: in.ThumbnailURL, Valid: true}
		}
		media = append(media, m)
	}

	var fanout *FanoutParams
	if scope.WantsAuthorities() {
		radius := DefaultDispatchRadiusMeters
		if req.AlertRadiusMeters != nil {
			radius = *req.AlertRadiusMeters
		}
		fanout = &FanoutParams{
			RadiusMeters: radius,
			CategoryIDs:  []int64{req.CategoryID},
			Limit:        MaxDispatchCandidates,
			Channel:      string(dispatch.ChannelInApp),
		}
	}

	dispatched, err := s.repo.Create(ctx, rep, media, fanout)
	if err != nil {
		return nil, 0, err
	}

	if s.waker != nil && len(media) > 0 {
		s.waker.Wake(ctx)
	}
	return rep, dispatched, nil
}

// Get returns the full report aggregate
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DetailResponse, error) {
	detail, media, feedback, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrReportNotFound
	}

	dispatches, err := s.dispatchRepo.ListByReport(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &DetailResponse{
		ReportResponse: *ResponseFromEntity(&detail.Report),
		CategoryName:   detail.CategoryName,
		ReporterName:   detail.ReporterName,
		Media:          make([]*MediaResponse, 0, len(media)),
		Feedback:       make([]*FeedbackResponse, 0, len(feedback)),
		Dispatches:     make([]*dispatch.DispatchResponse, 0, len(dispatches)),
	}
	if detail.SubcategoryName.Valid {
		resp.SubcategoryName = &detail.SubcategoryName.String
	}
	for _, m := range media {
		resp.Media = append(resp.Media, mediaResponse(m))
	}
	for _, f := range feedback {
		resp.Feedback = append(resp.Feedback, &FeedbackResponse{
			ID:        f.ID,
			UserID:    f.UserID,
			UserName:  f.UserName,
			Comment:   f.Comment,
			CreatedAt: f.CreatedAt,
		})
	}
	for _, d := range dispatches {
		resp.Dispatches = append(resp.Dispatches, dispatch.ResponseFromJoined(d))
	}
	return resp, nil
}

// UpdateStatus applies a partial moderation update. Notes, when supplied,
// are recorded in the audit trail even if nothing else changed. The owner
// and the report's city are told about status changes on a best-effort
// basis after the update commits.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateReportStatusRequest, reviewerID uuid.UUID) (*Report, error) {
	if req.Status != nil && !ValidStatus(Status(*req.Status)) {
		return nil, ErrInvalidStatus
	}
	if req.Priority != nil && !ValidPriority(Priority(*req.Priority)) {
		return nil, ErrInvalidPriority
	}

	rep, err := s.repo.UpdateStatus(ctx, id, req.Status, req.Priority)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}

	if req.Notes != nil && *req.Notes != "" {
		changes, _ := json.Marshal(map[string]string{"notes": *req.Notes})
		err := s.auditRepo.Record(ctx, "reports", id.String(),
			uuid.NullUUID{UUID: reviewerID, Valid: true}, "update", changes)
		if err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		s.announceUpdate(ctx, rep)
	}
	return rep, nil
}

func (s *Service) announceUpdate(ctx context.Context, rep *Report) {
	if s.notifier != nil {
		err := s.notifier.NotifyReportUpdate(ctx, rep.UserID, rep.ID, string(rep.Status))
		if err != nil {
			log.Warn().Err(err).Str("report_id", rep.ID.String()).Msg("owner notification failed")
		}
	}
	if s.publisher != nil && rep.City.Valid && strings.TrimSpace(rep.City.String) != "" {
		payload := map[string]interface{}{
			"type":      "report:update",
			"report_id": rep.ID,
			"status":    rep.Status,
			"priority":  rep.Priority,
		}
		if err := s.publisher.PushToCityJSON(rep.City.String, payload); err != nil {
			log.Warn().Err(err).Str("city", rep.City.String).Msg("city broadcast failed")
		}
	}
}

// AddFeedback appends a comment to an existing report
func (s *Service) AddFeedback(ctx context.Context, reportID, userID uuid.UUID, req *FeedbackRequest) (*Feedback, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}

	f := &Feedback{
		ID:       uuid.New(),
		ReportID: reportID,
		UserID:   userID,
		Comment:  req.Comment,
	}
	if err := s.repo.AddFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Flag records a complaint about a report. One flag per user per report;
// flagging again replaces the earlier reason and details.
func (s *Service) Flag(ctx context.Context, reportID, userID uuid.UUID, req *FlagRequest) (*Flag, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}

	f := &Flag{
		ID:       uuid.New(),
		ReportID: reportID,
		UserID:   userID,
		Reason:   req.Reason,
		Details:  nullStringPtr(req.Details),
	}
	return s.repo.UpsertFlag(ctx, f)
}

// ListByUser returns the caller's own reports, newest first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListForAdmin returns the moderation queue
func (s *Service) ListForAdmin(ctx context.Context, filter AdminFilter, limit, offset int) ([]*AdminRow, int, error) {
	for _, st := range filter.Statuses {
		if !ValidStatus(Status(st)) {
			return nil, 0, ErrInvalidStatus
		}
	}
	for _, p := range filter.Priorities {
		if !ValidPriority(Priority(p)) {
			return nil, 0, ErrInvalidPriority
		}
	}
	return s.repo.ListForAdmin(ctx, filter, limit, offset)
}

// Nearby returns reports around a point, closest first. The radius is
// clamped into the supported range.
func (s *Service) Nearby(ctx context.Context, p NearbyParams) ([]*Nearby, error) {
	if !geo.ValidLatLon(p.Latitude, p.Longitude) {
		return nil, ErrInvalidLocation
	}
	for _, st := range p.Statuses {
		if !ValidStatus(Status(st)) {
			return nil, ErrInvalidStatus
		}
	}
	p.RadiusMeters = geo.ClampRadius(p.RadiusMeters, MinNearbyRadiusMeters, MaxNearbyRadiusMeters)
	return s.repo.FindNearby(ctx, p)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
