package cache

import (
	"context"
	"fmt"
	"time"
)

// Key formats and TTLs for every cached entity. Keys live here so that
// invalidation stays in sync with population.
const (
	UserKeyPrefix  = "user:%d"
	PostKeyPrefix  = "post:%d"
	PostsListKey   = "posts:all"
	RateLimitKeyns = "ratelimit:%s:%s"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Second
	PostsListTTL = 10 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func RateLimitKey(route, ip string) string {
	return fmt.Sprintf(RateLimitKeyns, route, ip)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops both the single-post entry and the feed listing,
// since any post mutation changes the list payload.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostsListKey)
}
