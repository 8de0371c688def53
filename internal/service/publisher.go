package service

import (
	"context"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/middleware"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/observability"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"
)

// Publisher promotes due scheduled posts to published.
type Publisher struct {
	postRepo repository.PostRepository
}

// SweepFailure records one post the sweep could not promote.
type SweepFailure struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// SweepResult summarizes one publish sweep.
type SweepResult struct {
	PromotedCount int            `json:"promoted_count"`
	PromotedIDs   []uint         `json:"promoted_ids"`
	Failures      []SweepFailure `json:"failures"`
}

func NewPublisher(postRepo repository.PostRepository) *Publisher {
	return &Publisher{postRepo: postRepo}
}

// PublishDuePosts promotes every scheduled post whose publish time has
// arrived. Each post is handled independently: a failure is recorded and the
// sweep moves on, so one broken post cannot block the rest. The promotion is
// conditional on the post still being scheduled at write time, which makes
// overlapping sweeps promote each post at most once.
func (p *Publisher) PublishDuePosts(ctx context.Context, now time.Time) (SweepResult, error) {
	start := time.Now()
	defer func() {
		observability.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	result := SweepResult{PromotedIDs: []uint{}, Failures: []SweepFailure{}}

	due, err := p.postRepo.ListDue(ctx, now)
	if err != nil {
		return result, models.NewInternalError(err)
	}

	for _, post := range due {
		promoted, err := p.promote(ctx, post, now)
		if err != nil {
			result.Failures = append(result.Failures, SweepFailure{ID: post.ID, Reason: err.Error()})
			observability.SweepFailuresTotal.Inc()
			middleware.Logger.ErrorContext(ctx, "failed to promote scheduled post",
				"post_id", post.ID, "error", err)
			continue
		}
		if promoted {
			result.PromotedCount++
			result.PromotedIDs = append(result.PromotedIDs, post.ID)
		}
	}

	if result.PromotedCount > 0 {
		observability.PostsPromotedTotal.Add(float64(result.PromotedCount))
		middleware.Logger.InfoContext(ctx, "publish sweep promoted posts",
			"count", result.PromotedCount, "failures", len(result.Failures))
	}
	return result, nil
}

func (p *Publisher) promote(ctx context.Context, post *models.Post, now time.Time) (bool, error) {
	// The publish requirements are re-checked at promotion time: an author
	// may have emptied the gallery since the post was scheduled.
	_, err := ValidateTransition(post.Status, models.PostStatusPublished, PublicationInput{
		Title:    post.Title,
		HasImage: post.HasImage(),
	}, post.PublishedAt != nil, now)
	if err != nil {
		return false, err
	}

	promoted, err := p.postRepo.PromoteScheduled(ctx, post.ID, now)
	if err != nil {
		return false, err
	}
	if !promoted {
		// A concurrent sweep got there first. Not a failure.
		middleware.Logger.DebugContext(ctx, "post already promoted by concurrent sweep",
			"post_id", post.ID)
	}
	return promoted, nil
}

// Run invokes a publish sweep every interval until ctx is cancelled. One
// sweep runs immediately so scheduled posts are not delayed a full interval
// after startup.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) {
	middleware.Logger.Info("scheduled publisher started", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.PublishDuePosts(ctx, time.Now()); err != nil {
			middleware.Logger.ErrorContext(ctx, "publish sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			middleware.Logger.Info("scheduled publisher stopped")
			return
		case <-ticker.C:
		}
	}
}
