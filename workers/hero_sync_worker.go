package workers

import (
	"context"
	"log"
	"time"

	"match-analytics-system/services"
)

// PollHeroes keeps the hero directory fresh across game patches. The
// first refresh runs immediately so responses carry real hero names as
// soon as the provider is reachable; failures leave the previous mapping
// in place and are retried on the next tick.
func PollHeroes(ctx context.Context, directory *services.HeroDirectory, pollInterval time.Duration) {
	log.Println("Starting hero directory polling...")

	if err := directory.Refresh(ctx); err != nil {
		log.Printf("❌ Initial hero directory refresh failed: %v", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Hero directory polling stopped.")
			return
		case <-ticker.C:
			if err := directory.Refresh(ctx); err != nil {
				log.Printf("❌ Error refreshing hero directory: %v", err)
			}
		}
	}
}
