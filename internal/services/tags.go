package services

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// TrendingTagsLimit is how many tags the feed shows.
const TrendingTagsLimit = 5

// TrendingTags returns the most used tags, highest count first. A cache
// failure is logged and the value is computed from the store instead.
func (s *QuestionService) TrendingTags(ctx context.Context) ([]models.TagCount, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		tags, g, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("trending tags cache read failed")
		case ok:
			return tags, nil
		default:
			gen, cacheable = g, true
		}
	}

	tags, err := s.store.TrendingTags(ctx, TrendingTagsLimit)
	if err != nil {
		return nil, fmt.Errorf("trending tags: %w", err)
	}
	if tags == nil {
		tags = []models.TagCount{}
	}

	if cacheable {
		if err := s.cache.Set(ctx, gen, tags, s.trendingTTL); err != nil {
			s.log.Warn().Err(err).Msg("trending tags cache write failed")
		}
	}

	return tags, nil
}

func (s *QuestionService) invalidateTrending(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("trending tags cache invalidation failed")
	}
}
