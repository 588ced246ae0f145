package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gwc-community-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LiveService serves the SSE endpoints behind the live collection views.
// Every event is the full current result set of the backing query, a
// whole-snapshot replacement, so a subscriber can never drift from server
// state for longer than one push.
type LiveService struct {
	DB  *gorm.DB
	Hub *LiveHub
}

func NewLiveService(db *gorm.DB, hub *LiveHub) *LiveService {
	return &LiveService{DB: db, Hub: hub}
}

// snapshotEvent is one SSE payload: the topic revision plus the full records.
type snapshotEvent struct {
	Rev  uint64      `json:"rev"`
	Data interface{} `json:"data"`
}

// stream runs the SSE loop: one snapshot immediately on connect, then one per
// hub notification, with periodic keepalive comments. fetch must capture
// everything it needs up front; the fiber context is not safe to touch after
// the handler returns.
func (s *LiveService) stream(c *fiber.Ctx, topic string, fetch func() (interface{}, error)) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	ctx := c.Context()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		signal, cancel := s.Hub.Subscribe(topic)
		defer cancel()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		send := func() bool {
			data, err := fetch()
			if err != nil {
				log.Printf("SSE fetch error on %s: %v", topic, err)
				return true // keep the stream open, next notify retries
			}
			payload, err := json.Marshal(snapshotEvent{Rev: s.Hub.Revision(topic), Data: data})
			if err != nil {
				log.Printf("SSE marshal error on %s: %v", topic, err)
				return true
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
			// Flush failing means the client went away.
			return w.Flush() == nil
		}

		if !send() {
			return
		}

		for {
			select {
			case <-signal:
				if !send() {
					return
				}
			case <-keepalive.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

// StreamTournaments streams the tournament list, newest first, optionally
// filtered by ?status=.
func (s *LiveService) StreamTournaments(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && !models.ValidTournamentStatus(status) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid status filter"})
	}

	return s.stream(c, TopicTournaments, func() (interface{}, error) {
		var tournaments []models.Tournament
		q := s.DB.Order("created_at DESC")
		if status != "" {
			q = q.Where("status = ?", status)
		}
		err := q.Find(&tournaments).Error
		return tournaments, err
	})
}

// StreamScoreboards streams all scoreboards, newest first.
func (s *LiveService) StreamScoreboards(c *fiber.Ctx) error {
	return s.stream(c, TopicScoreboards, func() (interface{}, error) {
		var boards []models.Scoreboard
		err := s.DB.Order("created_at DESC").Find(&boards).Error
		return boards, err
	})
}

// StreamRankings streams all ranking tables, newest first. Entries are in
// stored insertion order; each record also carries the derived display order.
func (s *LiveService) StreamRankings(c *fiber.Ctx) error {
	return s.stream(c, TopicRankings, func() (interface{}, error) {
		var rankings []models.TournamentRanking
		if err := s.DB.Order("created_at DESC").Find(&rankings).Error; err != nil {
			return nil, err
		}
		return presentRankings(rankings), nil
	})
}

// StreamBlogPosts streams blog posts, newest first. Anonymous and non-admin
// subscribers see published posts only.
func (s *LiveService) StreamBlogPosts(c *fiber.Ctx) error {
	admin, _ := c.Locals("is_admin").(bool)

	return s.stream(c, TopicBlogPosts, func() (interface{}, error) {
		var posts []models.BlogPost
		q := s.DB.Order("created_at DESC")
		if !admin {
			q = q.Where("published = ?", true)
		}
		err := q.Find(&posts).Error
		return posts, err
	})
}

// StreamBlogComments streams the comments of one post, newest first.
func (s *LiveService) StreamBlogComments(c *fiber.Ctx) error {
	postID := c.Params("id")

	return s.stream(c, CommentTopic(postID), func() (interface{}, error) {
		var comments []models.BlogComment
		err := s.DB.Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error
		return comments, err
	})
}
