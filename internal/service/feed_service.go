package service

import (
	"context"
	"sync"

	"rede-backend/internal/domain"
	"rede-backend/pkg/logger"
)

// FeedResult holds the two independently-fetched feed halves.
type FeedResult struct {
	Registered []domain.Profile
	Suggested  []domain.SuggestedProfile
}

// FeedService aggregates registered profiles and suggested profiles for
// the feed page.
type FeedService struct {
	profiles  ProfileStore
	suggested SuggestedSource
	stash     SuggestedStash
	logger    *logger.Logger
}

// NewFeedService creates a new feed aggregator.
func NewFeedService(profiles ProfileStore, suggested SuggestedSource, stash SuggestedStash, log *logger.Logger) *FeedService {
	return &FeedService{
		profiles:  profiles,
		suggested: suggested,
		stash:     stash,
		logger:    log,
	}
}

// Load fetches both feed halves concurrently and returns once both have
// settled. Each failure is logged independently and yields an empty slot;
// one source failing never suppresses the other's results.
func (s *FeedService) Load(ctx context.Context, sess *domain.Session) *FeedResult {
	accessToken := ""
	if sess != nil {
		accessToken = sess.AccessToken
	}

	result := &FeedResult{}
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		registered, err := s.profiles.SelectProfiles(ctx, accessToken)
		if err != nil {
			s.logger.WithError(err).Error("Failed to fetch registered profiles")
			return
		}
		result.Registered = registered
	}()

	go func() {
		defer wg.Done()
		suggested, err := s.suggested.Suggested(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Failed to fetch suggested profiles")
			return
		}
		result.Suggested = suggested
	}()

	wg.Wait()

	if sess != nil && len(result.Suggested) > 0 {
		if err := s.stash.StashSuggested(ctx, sess.ID, result.Suggested); err != nil {
			s.logger.WithError(err).Warn("Failed to stash suggested batch")
		}
	}

	return result
}
