package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix = "post:%d"
	// PostsListKeyName caches the unfiltered first page of published posts.
	PostsListKeyName = "posts:list:front"
	TagsKeyName      = "tags:all"
)

const (
	PostTTL  = 30 * time.Minute
	ListTTL  = 2 * time.Minute
	TagsTTL  = 10 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostsListKey() string {
	return PostsListKeyName
}

func TagsKey() string {
	return TagsKeyName
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey())
}

func InvalidateTags(ctx context.Context) {
	Invalidate(ctx, TagsKey())
}
