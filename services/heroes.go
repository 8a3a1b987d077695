// services/heroes.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gosimple/slug"
)

// heroRecord is one row of the provider's hero constants endpoint.
type heroRecord struct {
	ID            int    `json:"id"`
	LocalizedName string `json:"localized_name"`
}

// HeroDirectory resolves hero IDs to display names and URL-safe slugs.
// The mapping is static per game patch, so it is fetched once and cached;
// a background refresh keeps it current across patches.
type HeroDirectory struct {
	client *OpenDotaClient

	mu    sync.RWMutex
	names map[int]string
	slugs map[int]string
}

func NewHeroDirectory(client *OpenDotaClient) *HeroDirectory {
	return &HeroDirectory{
		client: client,
		names:  make(map[int]string),
		slugs:  make(map[int]string),
	}
}

// Refresh re-fetches the hero constants from the provider.
func (d *HeroDirectory) Refresh(ctx context.Context) error {
	var heroes []heroRecord
	if err := d.client.getJSON(ctx, "/api/heroes", nil, &heroes); err != nil {
		return fmt.Errorf("fetch heroes: %w", err)
	}
	if len(heroes) == 0 {
		return fmt.Errorf("provider returned empty hero list")
	}

	names := make(map[int]string, len(heroes))
	slugs := make(map[int]string, len(heroes))
	for _, h := range heroes {
		names[h.ID] = h.LocalizedName
		slugs[h.ID] = slug.Make(h.LocalizedName)
	}

	d.mu.Lock()
	d.names = names
	d.slugs = slugs
	d.mu.Unlock()

	log.Printf("✅ [HEROES] directory refreshed (%d heroes)", len(heroes))
	return nil
}

// Name returns the hero's display name, or "Hero <id>" before the
// directory has loaded.
func (d *HeroDirectory) Name(heroID int) string {
	d.mu.RLock()
	name, ok := d.names[heroID]
	d.mu.RUnlock()
	if !ok {
		return fmt.Sprintf("Hero %d", heroID)
	}
	return name
}

// Slug returns the hero's URL-safe slug, or "hero-<id>" before the
// directory has loaded.
func (d *HeroDirectory) Slug(heroID int) string {
	d.mu.RLock()
	s, ok := d.slugs[heroID]
	d.mu.RUnlock()
	if !ok {
		return slug.Make(fmt.Sprintf("hero %d", heroID))
	}
	return s
}
