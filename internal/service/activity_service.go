package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/observability"
)

const defaultActivityBuffer = 200

// ActivityActor identifies who performed a workflow transition.
type ActivityActor struct {
	ID   string
	Role string
}

// ActivityEntry captures the details of one workflow transition.
type ActivityEntry struct {
	Actor      ActivityActor
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

// ActivityRecorder records workflow events.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (models.ActivityEvent, error)
}

// ActivityService records events and keeps the most recent ones for the activity feed.
type ActivityService interface {
	ActivityRecorder
	Recent(limit int) []models.ActivityEvent
}

type activityService struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string

	mu       sync.RWMutex
	recent   []models.ActivityEvent
	capacity int
}

// NewActivityService constructs the activity recorder. Redis and NATS are optional;
// when configured every event is published to "<channelBase>:events" and
// "<channelBase>.events" respectively.
func NewActivityService(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) ActivityService {
	stream := ""
	subject := ""
	if base := strings.TrimSpace(channelBase); base != "" {
		stream = base + ":events"
		subject = strings.ReplaceAll(base, ":", ".") + ".events"
	}

	return &activityService{
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "activity_service").Logger(),
		now:         utcNow,
		newID:       newID,
		capacity:    defaultActivityBuffer,
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (models.ActivityEvent, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return models.ActivityEvent{}, apperror.Invalid("action is required", nil)
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return models.ActivityEvent{}, apperror.Invalid("entity type is required", nil)
	}

	event := models.ActivityEvent{
		ID:         s.newID(),
		Action:     strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityType: strings.ToLower(strings.TrimSpace(entry.EntityType)),
		EntityID:   entry.EntityID,
		ActorID:    entry.Actor.ID,
		ActorRole:  normalizeRole(entry.Actor.Role),
		Metadata:   sanitizeMetadata(entry.Metadata),
		OccurredAt: s.now(),
	}

	s.remember(event)
	s.logger.Info().
		Str("event_id", event.ID).
		Str("action", event.Action).
		Str("entity_type", event.EntityType).
		Str("entity_id", event.EntityID).
		Str("actor_role", event.ActorRole).
		Msg("workflow event")

	s.publish(ctx, event)
	return event, nil
}

// Recent returns up to limit events, newest first.
func (s *activityService) Recent(limit int) []models.ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	events := make([]models.ActivityEvent, 0, limit)
	for i := len(s.recent) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, s.recent[i])
	}
	return events
}

func (s *activityService) remember(event models.ActivityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, event)
	if overflow := len(s.recent) - s.capacity; overflow > 0 {
		s.recent = append(s.recent[:0:0], s.recent[overflow:]...)
	}
}

// publish fans the event out to the configured brokers. Failures are logged only.
func (s *activityService) publish(ctx context.Context, event models.ActivityEvent) {
	if (s.redis == nil || s.redisStream == "") && (s.nats == nil || s.natsSubject == "") {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to encode workflow event")
		return
	}

	if s.redis != nil && s.redisStream != "" {
		outcome := "success"
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			outcome = "error"
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish workflow event to redis")
		}
		observability.EventsPublishedTotal().WithLabelValues("redis", outcome).Inc()
	}

	if s.nats != nil && s.natsSubject != "" {
		outcome := "success"
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			outcome = "error"
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish workflow event to nats")
		}
		observability.EventsPublishedTotal().WithLabelValues("nats", outcome).Inc()
	}
}

func sanitizeMetadata(metadata map[string]any) datatypes.JSONMap {
	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func normalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return systemDecider
	}
	return r
}
