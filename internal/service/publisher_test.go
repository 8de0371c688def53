package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duePost(id uint, scheduledFor time.Time) *models.Post {
	return &models.Post{
		ID:           id,
		Title:        "Harbor Lights",
		Status:       models.PostStatusScheduled,
		ImageURL:     "https://cdn.example.com/harbor.jpg",
		ScheduledFor: &scheduledFor,
		UserID:       1,
	}
}

func TestPublishDuePostsPromotesAllDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	promoted := map[uint]bool{}
	repo := &stubPostRepo{
		listDueFn: func(ctx context.Context, at time.Time) ([]*models.Post, error) {
			return []*models.Post{duePost(1, past), duePost(2, past)}, nil
		},
		promoteScheduledFn: func(ctx context.Context, id uint, at time.Time) (bool, error) {
			if promoted[id] {
				return false, nil
			}
			promoted[id] = true
			return true, nil
		},
	}

	result, err := NewPublisher(repo).PublishDuePosts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PromotedCount)
	assert.ElementsMatch(t, []uint{1, 2}, result.PromotedIDs)
	assert.Empty(t, result.Failures)
}

func TestPublishDuePostsSecondSweepPromotesNothing(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	// The stub behaves like the real store: promotion flips the post out of
	// scheduled, so a later sweep no longer sees it as due.
	due := []*models.Post{duePost(1, past), duePost(2, past)}
	repo := &stubPostRepo{
		listDueFn: func(ctx context.Context, at time.Time) ([]*models.Post, error) {
			return due, nil
		},
		promoteScheduledFn: func(ctx context.Context, id uint, at time.Time) (bool, error) {
			for i, p := range due {
				if p.ID == id {
					due = append(due[:i], due[i+1:]...)
					return true, nil
				}
			}
			return false, nil
		},
	}
	publisher := NewPublisher(repo)

	first, err := publisher.PublishDuePosts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, first.PromotedCount)

	second, err := publisher.PublishDuePosts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.PromotedCount)
	assert.Empty(t, second.Failures)
}

func TestPublishDuePostsIsolatesFailures(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	repo := &stubPostRepo{
		listDueFn: func(ctx context.Context, at time.Time) ([]*models.Post, error) {
			return []*models.Post{duePost(1, past), duePost(2, past), duePost(3, past)}, nil
		},
		promoteScheduledFn: func(ctx context.Context, id uint, at time.Time) (bool, error) {
			if id == 2 {
				return false, errors.New("connection reset")
			}
			return true, nil
		},
	}

	result, err := NewPublisher(repo).PublishDuePosts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PromotedCount)
	assert.ElementsMatch(t, []uint{1, 3}, result.PromotedIDs)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, uint(2), result.Failures[0].ID)
	assert.Contains(t, result.Failures[0].Reason, "connection reset")
}

func TestPublishDuePostsRechecksPublishRules(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	// The author emptied the gallery after scheduling; promotion must refuse
	// rather than publish an imageless post.
	bare := duePost(1, past)
	bare.ImageURL = ""
	var promoteCalls int
	repo := &stubPostRepo{
		listDueFn: func(ctx context.Context, at time.Time) ([]*models.Post, error) {
			return []*models.Post{bare}, nil
		},
		promoteScheduledFn: func(ctx context.Context, id uint, at time.Time) (bool, error) {
			promoteCalls++
			return true, nil
		},
	}

	result, err := NewPublisher(repo).PublishDuePosts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PromotedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, uint(1), result.Failures[0].ID)
	assert.Zero(t, promoteCalls)
}

func TestPublishDuePostsLostRaceIsNotAFailure(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	repo := &stubPostRepo{
		listDueFn: func(ctx context.Context, at time.Time) ([]*models.Post, error) {
			return []*models.Post{duePost(1, past)}, nil
		},
		promoteScheduledFn: func(ctx context.Context, id uint, at time.Time) (bool, error) {
			return false, nil
		},
	}

	result, err := NewPublisher(repo).PublishDuePosts(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PromotedCount)
	assert.Empty(t, result.Failures)
}

func TestPublishDuePostsListError(t *testing.T) {
	repo := &stubPostRepo{
		listDueFn: func(ctx context.Context, at time.Time) ([]*models.Post, error) {
			return nil, errors.New("db down")
		},
	}

	_, err := NewPublisher(repo).PublishDuePosts(context.Background(), time.Now())
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.ErrCodeInternal, appErr.Code)
}
