package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles notification logic
type Service struct {
	repo      Repository
	publisher RealtimePublisher
	enqueuer  Enqueuer
}

// NewService creates notification service. publisher and enqueuer may be
// nil; the notification is then stored and its deliveries stay pending until
// some other process picks them up.
func NewService(repo Repository, publisher RealtimePublisher, enqueuer Enqueuer) *Service {
	return &Service{repo: repo, publisher: publisher, enqueuer: enqueuer}
}

// Send persists the notification with one pending delivery per channel, then
// fires the transports. The websocket push and the queue handoff run after
// commit and never fail the call; a lost push just means the user sees the
// notification on their next list fetch.
func (s *Service) Send(ctx context.Context, req *SendRequest) (*Notification, error) {
	if !ValidType(Type(req.Type)) {
		return nil, ErrInvalidType
	}

	channels := []Channel{ChannelInApp}
	if len(req.Channels) > 0 {
		channels = channels[:0]
		seen := make(map[Channel]bool)
		for _, raw := range req.Channels {
			ch := Channel(raw)
			if !ValidChannel(ch) {
				return nil, ErrInvalidChannel
			}
			if !seen[ch] {
				seen[ch] = true
				channels = append(channels, ch)
			}
		}
	}

	n := &Notification{
		ID:      uuid.New(),
		UserID:  req.UserID,
		Type:    Type(req.Type),
		Title:   req.Title,
		Body:    req.Body,
		Payload: req.Payload,
	}
	if req.RelatedReportID != nil {
		n.RelatedReportID = uuid.NullUUID{UUID: *req.RelatedReportID, Valid: true}
	}

	deliveries, err := s.repo.Create(ctx, n, channels)
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, n, deliveries)
	return n, nil
}

func (s *Service) deliver(ctx context.Context, n *Notification, deliveries []*Delivery) {
	for _, d := range deliveries {
		if !d.Channel.External() {
			if s.publisher == nil {
				continue
			}
			err := s.publisher.PushToUserJSON(n.UserID, map[string]any{
				"type":         "notification:new",
				"notification": ResponseFromEntity(n),
			})
			if err != nil {
				log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("websocket push failed")
			}
			continue
		}

		if s.enqueuer == nil {
			continue
		}
		job := &DeliveryJob{
			DeliveryID:     d.ID,
			NotificationID: n.ID,
			UserID:         n.UserID,
			Channel:        d.Channel,
			Title:          n.Title,
			Body:           n.Body,
			Payload:        n.Payload,
		}
		if err := s.enqueuer.EnqueueDelivery(ctx, job); err != nil {
			log.Warn().Err(err).
				Str("delivery_id", d.ID.String()).
				Str("channel", string(d.Channel)).
				Msg("delivery enqueue failed")
		}
	}
}

// NotifyReportUpdate tells a report owner their report's status changed.
// Used by the report service after a moderation update.
func (s *Service) NotifyReportUpdate(ctx context.Context, userID, reportID uuid.UUID, status string) error {
	payload, _ := json.Marshal(map[string]string{
		"report_id": reportID.String(),
		"status":    status,
	})
	_, err := s.Send(ctx, &SendRequest{
		UserID:          userID,
		Type:            string(TypeReportUpdate),
		Title:           "Report status updated",
		Body:            fmt.Sprintf("Your report is now %s", status),
		Payload:         payload,
		RelatedReportID: &reportID,
		Channels:        []string{string(ChannelInApp), string(ChannelPush)},
	})
	return err
}

// List returns the user's notifications newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

// MarkSeen acknowledges a batch of the caller's notifications and returns
// what was actually marked. An empty batch is a no-op.
func (s *Service) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*SeenMark, error) {
	if len(ids) == 0 {
		return []*SeenMark{}, nil
	}
	return s.repo.MarkSeen(ctx, userID, ids)
}

// Delete soft-deletes a batch of the caller's notifications and returns how
// many were removed.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.SoftDelete(ctx, userID, ids)
}
