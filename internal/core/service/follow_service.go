package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/ports"
)

// FollowService manages user→club follow relations.
type FollowService struct {
	follows ports.FollowRepository
	clubs   ports.ClubRepository
	logger  zerolog.Logger
}

func NewFollowService(follows ports.FollowRepository, clubs ports.ClubRepository, logger zerolog.Logger) *FollowService {
	return &FollowService{follows: follows, clubs: clubs, logger: logger}
}

func (s *FollowService) Follow(ctx context.Context, userID, clubID string) error {
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return err
	}
	if err := s.follows.Create(ctx, userID, clubID); err != nil {
		return err
	}
	s.logger.Debug().Str("user_id", userID).Str("club_id", clubID).Msg("club followed")
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, userID, clubID string) error {
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return err
	}
	return s.follows.Delete(ctx, userID, clubID)
}
