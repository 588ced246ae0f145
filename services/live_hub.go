package services

import (
	"sync"
)

// Live topics, one per synced collection. Comment streams append the post id.
const (
	TopicTournaments  = "tournaments"
	TopicScoreboards  = "scoreboards"
	TopicRankings     = "tournamentRankings"
	TopicBlogPosts    = "blog-posts"
	TopicBlogComments = "blog-comments"
)

// CommentTopic scopes the comment topic to a single post.
func CommentTopic(postID string) string {
	return TopicBlogComments + "/" + postID
}

// LiveHub fans mutation signals out to SSE subscribers, grouped by topic.
// A signal carries no payload: each subscriber re-queries the full result set
// so every push is a whole-snapshot replacement, never a diff. Each topic has
// a monotonic revision that subscribers attach to events; clients use it to
// discard any optimistic local state older than the snapshot.
type LiveHub struct {
	mu     sync.RWMutex
	topics map[string]map[chan struct{}]bool
	revs   map[string]uint64
}

func NewLiveHub() *LiveHub {
	return &LiveHub{
		topics: make(map[string]map[chan struct{}]bool),
		revs:   make(map[string]uint64),
	}
}

// Subscribe registers a listener on topic. The returned channel receives one
// signal per Notify (coalesced while the subscriber is busy). cancel releases
// the subscription; it is safe to call more than once but releases only once.
func (h *LiveHub) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[chan struct{}]bool)
	}
	h.topics[topic][ch] = true
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.topics[topic]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.topics, topic)
				}
			}
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Notify bumps the topic revision and wakes every subscriber. The send is
// non-blocking: a subscriber that already has a pending signal coalesces,
// so a slow consumer can never stall a mutation.
func (h *LiveHub) Notify(topic string) {
	h.mu.Lock()
	h.revs[topic]++
	subs := h.topics[topic]
	channels := make([]chan struct{}, 0, len(subs))
	for ch := range subs {
		channels = append(channels, ch)
	}
	h.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Revision returns the current revision of topic (0 if never notified).
func (h *LiveHub) Revision(topic string) uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revs[topic]
}

// Subscribers reports the number of live listeners on topic.
func (h *LiveHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
