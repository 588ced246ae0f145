// services/scheduler.go
package services

import (
	"log"
	"time"

	"gwc-community-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartPublishScheduler flips scheduled blog posts live once their
// publish_at passes, then pushes the new snapshot to live subscribers.
func (s *BlogService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish scheduled posts
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var posts []models.BlogPost
			now := time.Now()
			err := s.DB.Where("published = ? AND publish_at IS NOT NULL AND publish_at <= ?", false, now).
				Find(&posts).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			published := 0
			for _, p := range posts {
				p.Published = true
				p.PublishAt = nil
				if err := s.DB.Save(&p).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish post %s: %v", p.ID, err)
				} else {
					published++
					log.Printf("✅ Auto-published post: %s", p.Title)
				}
			}
			if published > 0 {
				s.Hub.Notify(TopicBlogPosts)
			}
		}),
	)
}
