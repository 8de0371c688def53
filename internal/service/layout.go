package service

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/observability"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/repository"
)

// Layout bucket thresholds over [0,1): 35% split-horizontal,
// 30% split-vertical, 35% hover.
const (
	layoutHorizontalCutoff = 0.35
	layoutVerticalCutoff   = 0.65
)

// LayoutDistribution counts how many posts landed in each layout bucket.
type LayoutDistribution struct {
	Horizontal int `json:"horizontal"`
	Vertical   int `json:"vertical"`
	Hover      int `json:"hover"`
}

// LayoutFor picks the layout type for the post at position index in a set of
// total posts. The choice depends only on (index, total), so the same feed
// ordering always renders the same way across processes and restarts.
func LayoutFor(index, total int) models.PostType {
	h := fnv.New64a()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(index))
	binary.LittleEndian.PutUint64(buf[8:], uint64(total))
	h.Write(buf[:])
	r := float64(h.Sum64()&(1<<53-1)) / float64(1<<53)

	switch {
	case r < layoutHorizontalCutoff:
		return models.PostTypeSplitHorizontal
	case r < layoutVerticalCutoff:
		return models.PostTypeSplitVertical
	default:
		return models.PostTypeHover
	}
}

// AssignLayouts computes a layout type per post from its position in
// postsInOrder. Pure: no time, no RNG state.
func AssignLayouts(postsInOrder []*models.Post) (map[uint]models.PostType, LayoutDistribution) {
	types := make(map[uint]models.PostType, len(postsInOrder))
	var dist LayoutDistribution
	total := len(postsInOrder)
	for i, post := range postsInOrder {
		lt := LayoutFor(i, total)
		types[post.ID] = lt
		switch lt {
		case models.PostTypeSplitHorizontal:
			dist.Horizontal++
		case models.PostTypeSplitVertical:
			dist.Vertical++
		case models.PostTypeHover:
			dist.Hover++
		}
	}
	return types, dist
}

// LayoutService applies deterministic layout assignment to the stored post set.
type LayoutService struct {
	postRepo repository.PostRepository
}

func NewLayoutService(postRepo repository.PostRepository) *LayoutService {
	return &LayoutService{postRepo: postRepo}
}

// ReassignAll recomputes the layout type of every post over the newest-first
// ordering and persists the result in one transaction.
func (s *LayoutService) ReassignAll(ctx context.Context) (int, LayoutDistribution, error) {
	posts, err := s.postRepo.ListAllNewestFirst(ctx)
	if err != nil {
		return 0, LayoutDistribution{}, models.NewInternalError(err)
	}

	types, dist := AssignLayouts(posts)
	if len(types) > 0 {
		if err := s.postRepo.UpdateLayoutTypes(ctx, types); err != nil {
			return 0, LayoutDistribution{}, models.NewInternalError(err)
		}
	}

	observability.LayoutDistribution.WithLabelValues(string(models.PostTypeSplitHorizontal)).Set(float64(dist.Horizontal))
	observability.LayoutDistribution.WithLabelValues(string(models.PostTypeSplitVertical)).Set(float64(dist.Vertical))
	observability.LayoutDistribution.WithLabelValues(string(models.PostTypeHover)).Set(float64(dist.Hover))

	return len(posts), dist, nil
}
