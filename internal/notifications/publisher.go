package notifications

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"

	"ripple/internal/models"
	"ripple/internal/observability"

	"github.com/redis/go-redis/v9"
)

// feedChannel is the Redis channel every API instance publishes feed events to.
const feedChannel = "feed:events"

// Publisher pushes feed events into Redis so all instances see them. Without
// Redis it degrades to broadcasting on the local hub only.
type Publisher struct {
	rdb   *redis.Client
	local *Hub
}

// NewPublisher creates a Publisher. local may be nil when the process has no
// websocket surface (e.g. the seed command).
func NewPublisher(rdb *redis.Client, local *Hub) *Publisher {
	return &Publisher{rdb: rdb, local: local}
}

// PublishPostEvent broadcasts a post mutation to feed subscribers.
// Publishing is best-effort; a failed broadcast never fails the request.
func (p *Publisher) PublishPostEvent(ctx context.Context, eventType string, post *models.Post) {
	if post == nil {
		return
	}
	p.send(ctx, models.FeedEvent{Type: eventType, PostID: post.ID, Post: post})
}

// PublishPostDeleted broadcasts a deletion, which carries only the post ID.
func (p *Publisher) PublishPostDeleted(ctx context.Context, postID uint) {
	p.send(ctx, models.FeedEvent{Type: models.EventPostDeleted, PostID: postID})
}

func (p *Publisher) send(ctx context.Context, event models.FeedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("feed event marshal failed: %v", err)
		return
	}

	observability.PostEventsTotal.WithLabelValues(event.Type).Inc()

	if p.rdb != nil {
		if err := p.rdb.Publish(ctx, feedChannel, payload).Err(); err == nil {
			return
		} else {
			log.Printf("feed event publish failed: %v", err)
		}
	}

	if p.local != nil {
		p.local.BroadcastAll(string(payload))
	}
}

// StartSubscriber subscribes to the feed channel and calls onMessage for each
// incoming event. It returns immediately; delivery runs in a goroutine until
// ctx is canceled.
func (p *Publisher) StartSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if p.rdb == nil {
		return nil
	}
	sub := p.rdb.Subscribe(ctx, feedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in feed subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
