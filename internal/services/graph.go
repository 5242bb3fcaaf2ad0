package services

import (
	"context"
	"errors"

	"quillpost/internal/apperr"
	"quillpost/internal/log"
	"quillpost/internal/metrics"
	"quillpost/internal/repository"
)

// GraphService maintains follow edges between users.
type GraphService struct {
	follows repository.FollowRepository
}

func NewGraphService(repos *repository.Repositories) *GraphService {
	return &GraphService{follows: repos.Follows}
}

// Follow is idempotent. Following yourself is silently ignored.
func (s *GraphService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return nil
	}
	if err := s.follows.Ensure(ctx, followerID, targetID); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).
			Uint("follower_id", followerID).
			Uint("target_id", targetID).
			Msg("failed to follow user")
		return err
	}
	metrics.FollowChanges.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow reports apperr.ErrNotFound when there is no edge to remove.
func (s *GraphService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if err := s.follows.Delete(ctx, followerID, targetID); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			l := log.Ctx(ctx)
			l.Error().Err(err).
				Uint("follower_id", followerID).
				Uint("target_id", targetID).
				Msg("failed to unfollow user")
		}
		return err
	}
	metrics.FollowChanges.WithLabelValues("unfollow").Inc()
	return nil
}

func (s *GraphService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.follows.Exists(ctx, followerID, targetID)
}
