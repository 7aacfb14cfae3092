package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
	"github.com/convergex/campus-events/internal/pkg/metrics"
)

// NotificationFanout writes one notification per follower of the club that
// posted a new event. Invoked by the queue workers, never on the request path.
type NotificationFanout struct {
	follows       ports.FollowRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewNotificationFanout(
	follows ports.FollowRepository,
	notifications ports.NotificationRepository,
	logger zerolog.Logger,
) *NotificationFanout {
	return &NotificationFanout{follows: follows, notifications: notifications, logger: logger}
}

func (s *NotificationFanout) Fanout(ctx context.Context, job ports.NotificationJob) error {
	followerIDs, err := s.follows.FollowerIDsByClub(ctx, job.ClubID)
	if err != nil {
		metrics.NotificationsFanoutTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("fanout: list followers: %w", err)
	}
	if len(followerIDs) == 0 {
		metrics.NotificationsFanoutTotal.WithLabelValues("delivered").Inc()
		return nil
	}

	now := time.Now().UTC()
	batch := make([]*domain.Notification, 0, len(followerIDs))
	for _, userID := range followerIDs {
		batch = append(batch, &domain.Notification{
			UserID:     userID,
			EventID:    job.EventID,
			EventTitle: job.EventTitle,
			ClubName:   job.ClubName,
			CreatedAt:  now,
		})
	}

	if err := s.notifications.InsertMany(ctx, batch); err != nil {
		metrics.NotificationsFanoutTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("fanout: insert notifications: %w", err)
	}

	metrics.NotificationsFanoutTotal.WithLabelValues("delivered").Inc()
	s.logger.Info().Str("event_id", job.EventID).Int("followers", len(followerIDs)).Msg("event fan-out delivered")
	return nil
}
