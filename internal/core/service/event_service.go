package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
	"github.com/convergex/campus-events/internal/pkg/metrics"
)

// FanoutQueue is the interface the event service uses to hand off follower
// notifications; delivery happens asynchronously.
type FanoutQueue interface {
	Enqueue(job ports.NotificationJob)
}

// RegistrationCounter caches per-event registration counts. A nil-safe
// best-effort layer: failures fall back to the repository count.
type RegistrationCounter interface {
	Incr(ctx context.Context, eventID string) error
	Get(ctx context.Context, eventID string) (int64, bool, error)
	Prime(ctx context.Context, eventID string, count int64) error
}

// EventService implements club event CRUD plus the per-user save, register,
// and feed relations.
type EventService struct {
	events        ports.EventRepository
	clubs         ports.ClubRepository
	follows       ports.FollowRepository
	saved         ports.SavedEventRepository
	registrations ports.RegistrationRepository
	counters      RegistrationCounter
	fanout        FanoutQueue
	logger        zerolog.Logger
}

func NewEventService(
	events ports.EventRepository,
	clubs ports.ClubRepository,
	follows ports.FollowRepository,
	saved ports.SavedEventRepository,
	registrations ports.RegistrationRepository,
	counters RegistrationCounter,
	fanout FanoutQueue,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		events:        events,
		clubs:         clubs,
		follows:       follows,
		saved:         saved,
		registrations: registrations,
		counters:      counters,
		fanout:        fanout,
		logger:        logger,
	}
}

// List returns all events, each annotated with the viewer's saved/registered/
// following flags.
func (s *EventService) List(ctx context.Context, viewer *domain.User) ([]ports.EventDetails, error) {
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.annotate(ctx, viewer, events)
}

// Feed returns only the events of clubs the viewer follows.
func (s *EventService) Feed(ctx context.Context, viewer *domain.User) ([]ports.EventDetails, error) {
	clubIDs, err := s.follows.ClubIDsByUser(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	if len(clubIDs) == 0 {
		return []ports.EventDetails{}, nil
	}

	events, err := s.events.FindByClubIDs(ctx, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return s.annotate(ctx, viewer, events)
}

func (s *EventService) Get(ctx context.Context, viewer *domain.User, id string) (*ports.EventDetails, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.annotate(ctx, viewer, []*domain.Event{event})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Search finds events by title, case-insensitive. A blank query returns an
// empty result rather than everything.
func (s *EventService) Search(ctx context.Context, query string) ([]*domain.Event, error) {
	if strings.TrimSpace(query) == "" {
		return []*domain.Event{}, nil
	}
	return s.events.SearchByTitle(ctx, query)
}

// Create posts a new event. The club is resolved by name and created on first
// use with the actor as its admin. Follower notifications are enqueued for
// asynchronous fan-out.
func (s *EventService) Create(ctx context.Context, actor *domain.User, in ports.CreateEventInput) (*domain.Event, error) {
	club, err := s.resolveClub(ctx, actor, in.ClubName)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		EventDate:   in.EventDate,
		EventTime:   in.EventTime,
		Location:    in.Location,
		ClubID:      club.ID,
		ClubName:    club.Name,
		PostedByID:  actor.ID,
		ImageURLs:   in.ImageURLs,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	metrics.EventsCreatedTotal.Inc()
	s.logger.Info().Str("event_id", created.ID).Str("club", club.Name).Str("posted_by", actor.ID).Msg("event created")

	if s.fanout != nil {
		s.fanout.Enqueue(ports.NotificationJob{
			EventID:    created.ID,
			EventTitle: created.Title,
			ClubID:     club.ID,
			ClubName:   club.Name,
		})
	}
	return created, nil
}

// Update edits an event. Only the owner or a super admin may edit; an admin
// editing someone else's event gets ErrForbidden.
func (s *EventService) Update(ctx context.Context, actor *domain.User, id string, in ports.CreateEventInput) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, event) {
		return nil, domain.ErrForbidden
	}

	event.Title = in.Title
	event.Description = in.Description
	event.EventDate = in.EventDate
	event.EventTime = in.EventTime
	event.Location = in.Location
	if in.ImageURLs != nil {
		event.ImageURLs = in.ImageURLs
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes an event, with the same owner-or-super-admin rule as Update.
func (s *EventService) Delete(ctx context.Context, actor *domain.User, id string) error {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.canManage(actor, event) {
		return domain.ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info().Str("event_id", id).Str("deleted_by", actor.ID).Msg("event deleted")
	return nil
}

func (s *EventService) Save(ctx context.Context, userID, eventID string) error {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return err
	}
	return s.saved.Create(ctx, userID, eventID)
}

func (s *EventService) Unsave(ctx context.Context, userID, eventID string) error {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return err
	}
	return s.saved.Delete(ctx, userID, eventID)
}

func (s *EventService) SavedEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ids, err := s.saved.EventIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("saved events: %w", err)
	}
	return s.events.FindByIDs(ctx, ids)
}

func (s *EventService) Register(ctx context.Context, userID, eventID string) error {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return err
	}
	if err := s.registrations.Create(ctx, userID, eventID); err != nil {
		return err
	}

	metrics.EventRegistrationsTotal.Inc()
	if s.counters != nil {
		if err := s.counters.Incr(ctx, eventID); err != nil {
			s.logger.Warn().Err(err).Str("event_id", eventID).Msg("registration counter update failed")
		}
	}
	return nil
}

func (s *EventService) RegisteredEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ids, err := s.registrations.EventIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("registered events: %w", err)
	}
	return s.events.FindByIDs(ctx, ids)
}

// MyPostedEvents returns the actor's posted events with registration counts.
// Counts come from the cache when warm, otherwise from the store, priming the
// cache on the way out.
func (s *EventService) MyPostedEvents(ctx context.Context, userID string) ([]ports.EventStats, error) {
	events, err := s.events.FindByPostedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("my posted events: %w", err)
	}

	stats := make([]ports.EventStats, 0, len(events))
	for _, event := range events {
		count, err := s.registrationCount(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("my posted events: %w", err)
		}
		stats = append(stats, ports.EventStats{Event: event, RegistrationCount: count})
	}
	return stats, nil
}

func (s *EventService) registrationCount(ctx context.Context, eventID string) (int64, error) {
	if s.counters != nil {
		if count, ok, err := s.counters.Get(ctx, eventID); err == nil && ok {
			return count, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Str("event_id", eventID).Msg("registration counter read failed")
		}
	}

	count, err := s.registrations.CountByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if s.counters != nil {
		if err := s.counters.Prime(ctx, eventID, count); err != nil {
			s.logger.Warn().Err(err).Str("event_id", eventID).Msg("registration counter prime failed")
		}
	}
	return count, nil
}

func (s *EventService) canManage(actor *domain.User, event *domain.Event) bool {
	return event.PostedByID == actor.ID || actor.HasRole(domain.RoleSuperAdmin)
}

// resolveClub finds the club by name or creates it with the actor as admin.
func (s *EventService) resolveClub(ctx context.Context, actor *domain.User, name string) (*domain.Club, error) {
	club, err := s.clubs.FindByName(ctx, name)
	if err == nil {
		return club, nil
	}
	if !errors.Is(err, domain.ErrClubNotFound) {
		return nil, fmt.Errorf("resolve club: %w", err)
	}

	club, err = s.clubs.Create(ctx, &domain.Club{
		Name:      name,
		AdminID:   actor.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve club: %w", err)
	}
	s.logger.Info().Str("club_id", club.ID).Str("name", name).Str("admin_id", actor.ID).Msg("club created")
	return club, nil
}

// annotate decorates events with the viewer's relationship flags. Follow
// state is resolved once per call from the viewer's followed-club set.
func (s *EventService) annotate(ctx context.Context, viewer *domain.User, events []*domain.Event) ([]ports.EventDetails, error) {
	clubIDs, err := s.follows.ClubIDsByUser(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("annotate events: %w", err)
	}
	followed := make(map[string]struct{}, len(clubIDs))
	for _, id := range clubIDs {
		followed[id] = struct{}{}
	}

	details := make([]ports.EventDetails, 0, len(events))
	for _, event := range events {
		isSaved, err := s.saved.Exists(ctx, viewer.ID, event.ID)
		if err != nil {
			return nil, fmt.Errorf("annotate events: %w", err)
		}
		isRegistered, err := s.registrations.Exists(ctx, viewer.ID, event.ID)
		if err != nil {
			return nil, fmt.Errorf("annotate events: %w", err)
		}
		_, isFollowing := followed[event.ClubID]

		details = append(details, ports.EventDetails{
			Event:        event,
			IsSaved:      isSaved,
			IsRegistered: isRegistered,
			IsFollowing:  isFollowing,
		})
	}
	return details, nil
}
