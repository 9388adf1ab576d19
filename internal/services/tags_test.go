package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/stackit/backend/internal/cache"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

func TestTrendingTags_CountsAndOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.ask(t, "u", "a", "b")
	e.ask(t, "u", "a")
	e.ask(t, "u", "c")

	tags, err := e.questions.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{
		{Tag: "a", Count: 2},
		{Tag: "b", Count: 1},
		{Tag: "c", Count: 1},
	}, tags)
}

func TestTrendingTags_TopFive(t *testing.T) {
	e := newEnv(t)
	e.ask(t, "u", "t1", "t2", "t3", "t4", "t5", "t6", "t7")
	e.ask(t, "u", "t7")

	tags, err := e.questions.TrendingTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, services.TrendingTagsLimit)
	assert.Equal(t, models.TagCount{Tag: "t7", Count: 2}, tags[0])
}

func TestTrendingTags_Empty(t *testing.T) {
	e := newEnv(t)

	tags, err := e.questions.TrendingTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestTrendingTags_CacheAsideAndInvalidation(t *testing.T) {
	c := &countingCache{}
	e := newEnv(t, services.WithTagCache(c, time.Minute))
	ctx := context.Background()
	ada := e.register(t, "Ada", "ada@example.com")

	q := e.ask(t, ada.ID, "go")
	assert.Equal(t, 1, c.invalidates)

	first, err := e.questions.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)

	second, err := e.questions.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.sets, "second read is served from cache")

	_, err = e.questions.UpdateQuestion(ctx, q.ID, ada.ID, models.UpdateQuestionRequest{Tags: []string{"rust"}})
	require.NoError(t, err)
	assert.Equal(t, 2, c.invalidates)

	after, err := e.questions.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Tag: "rust", Count: 1}}, after)

	require.NoError(t, e.questions.DeleteQuestion(ctx, q.ID, ada.ID))
	assert.Equal(t, 3, c.invalidates)
}

func TestTrendingTags_CacheFailureFallsBack(t *testing.T) {
	c := &countingCache{getErr: errors.New("redis down")}
	e := newEnv(t, services.WithTagCache(c, time.Minute))
	e.ask(t, "u", "go")

	tags, err := e.questions.TrendingTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Tag: "go", Count: 1}}, tags)
}

func TestTrendingTags_MutationDuringReadIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := newHookStore()
	svc := services.NewQuestionService(store, zerolog.Nop(),
		services.WithTagCache(cache.NewMemoryTagCache(time.Minute, nil), time.Minute))

	// the question commits after the aggregate was read but before it is cached
	store.afterTrending = func() {
		_, err := svc.CreateQuestion(ctx, "u", models.CreateQuestionRequest{Title: "Q", Body: "B", Tags: []string{"go"}})
		require.NoError(t, err)
	}

	first, err := svc.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, first)

	second, err := svc.TrendingTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Tag: "go", Count: 1}}, second)
}
