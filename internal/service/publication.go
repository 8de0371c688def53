// Package service contains the application's business logic, sitting between
// the HTTP handlers and the repository layer.
package service

import (
	"strings"
	"time"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
)

// PublicationInput is the lifecycle-relevant slice of a submitted post.
type PublicationInput struct {
	Title        string
	HasImage     bool
	ScheduledFor *time.Time
}

// PreparedPublication is the normalized result of a validated transition.
type PreparedPublication struct {
	Title        string
	ScheduledFor *time.Time
	// StampPublishedAt is set when the post first enters published and the
	// current time should be recorded. It is never set again for a post
	// that already carried a published_at, so the original instant survives
	// unpublish/republish cycles.
	StampPublishedAt bool
}

// ValidateTransition checks a desired status change against the submitted
// fields and returns the normalized values to persist.
//
// It is purely functional, so the same rules run at submission time and
// again when the sweep promotes a scheduled post. current is empty on
// create. hasPublishedAt tells whether the post was ever published before.
func ValidateTransition(current, desired models.PostStatus, in PublicationInput, hasPublishedAt bool, now time.Time) (PreparedPublication, error) {
	var prepared PreparedPublication

	if !desired.Valid() {
		return prepared, models.NewValidationError("status", "Status must be draft, scheduled or published")
	}

	title := strings.TrimSpace(in.Title)

	switch desired {
	case models.PostStatusDraft:
		if title == "" {
			title = models.UntitledDraftTitle
		}

	case models.PostStatusPublished:
		if title == "" {
			return prepared, models.NewValidationError("title", "Title is required to publish")
		}
		if !in.HasImage {
			return prepared, models.NewValidationError("image", "At least one image is required to publish")
		}
		prepared.StampPublishedAt = !hasPublishedAt

	case models.PostStatusScheduled:
		if title == "" {
			return prepared, models.NewValidationError("title", "Title is required to schedule")
		}
		if !in.HasImage {
			return prepared, models.NewValidationError("image", "At least one image is required to schedule")
		}
		if in.ScheduledFor == nil {
			return prepared, models.NewValidationError("scheduled_for", "A publish time is required to schedule")
		}
		if !in.ScheduledFor.After(now) {
			return prepared, models.NewValidationError("scheduled_for", "The publish time must be in the future")
		}
		t := in.ScheduledFor.UTC()
		prepared.ScheduledFor = &t
	}

	prepared.Title = title
	return prepared, nil
}
