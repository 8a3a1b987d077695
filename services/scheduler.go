// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartEvictionScheduler runs a periodic sweep that drops expired entries
// from the response cache so memory tracks the working set, not history.
func (c *ResponseCache) StartEvictionScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 10 minutes: evict expired cached responses
	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if evicted := c.evictExpired(); evicted > 0 {
				log.Printf("🧹 [CACHE] evicted %d expired response(s)", evicted)
			}
		}),
	)
}
