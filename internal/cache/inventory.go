package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	// FeedKeyPrefix keys one page of the mirrored feed by limit and offset.
	FeedKeyPrefix = "feed:%d:%d"
	// FeedKeyPattern matches all cached feed pages.
	FeedKeyPattern = "feed:*"
)

// FeedTTL bounds staleness between sync passes; a completed pass also
// invalidates every feed page explicitly.
const FeedTTL = 5 * time.Minute

// FeedKey builds the cache key for one page of the feed.
func FeedKey(limit, offset int) string {
	return fmt.Sprintf(FeedKeyPrefix, limit, offset)
}

// InvalidateFeed drops every cached feed page. Called after a sync pass so
// readers never see a pre-sync view longer than necessary.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, FeedKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
