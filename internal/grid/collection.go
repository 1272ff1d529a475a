package grid

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/snapgrid/snapgrid-be/internal/models"
	"github.com/snapgrid/snapgrid-be/internal/monitoring"
	"github.com/snapgrid/snapgrid-be/internal/services"
	"github.com/snapgrid/snapgrid-be/internal/unsplash"
)

const (
	// FetchCount is how many raw results are requested per load.
	FetchCount = 30
	// DisplayCount is how many items the grid actually shows.
	DisplayCount = 10
	// PlaceholderCount is how many skeleton slots render while loading.
	PlaceholderCount = 5

	fallbackDescription = "No description available"
)

// Searcher is the image search collaborator.
type Searcher interface {
	RandomPhotos(ctx context.Context, query string, count int) ([]unsplash.Photo, error)
}

// Collection holds the ordered sequence of grid items and applies loads and
// reorders to it. Loads replace the sequence wholesale; reorders permute it
// in place. Nothing here is persisted: a restart or the next load discards
// the current order.
type Collection struct {
	searcher Searcher
	events   services.EventServiceProvider

	mu       sync.Mutex
	items    []models.GridItem
	query    string
	inflight int
	// Monotonic load tokens. A response only applies if no later-issued load
	// has already applied, so a slow stale response cannot clobber a newer one.
	issued  uint64
	applied uint64
}

// NewCollection creates an empty collection backed by the given searcher.
func NewCollection(searcher Searcher, events services.EventServiceProvider) *Collection {
	return &Collection{searcher: searcher, events: events}
}

// Load fetches a fresh sequence for query and replaces the current one
// atomically. On transport failure the previous sequence stays untouched, a
// notification is recorded, and no retry is attempted.
func (c *Collection) Load(ctx context.Context, query string) error {
	c.mu.Lock()
	c.issued++
	token := c.issued
	c.inflight++
	c.mu.Unlock()

	photos, err := c.searcher.RandomPhotos(ctx, query, FetchCount)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Failed to fetch pictures")
		monitoring.GridLoads.WithLabelValues("error").Inc()
		if evErr := c.events.CreateEvent("grid.load.failed", "error", "error fetching picture", nil); evErr != nil {
			log.Warn().Err(evErr).Msg("Failed to record load failure event")
		}
		return err
	}

	if token <= c.applied {
		// A later load already finished; this response is stale.
		monitoring.GridLoads.WithLabelValues("stale").Inc()
		return nil
	}
	c.applied = token

	if len(photos) > DisplayCount {
		photos = photos[:DisplayCount]
	}
	items := make([]models.GridItem, len(photos))
	for i, p := range photos {
		items[i] = models.GridItem{
			ID:          fmt.Sprintf("item-%d", i),
			ImageURL:    p.URLs.Regular,
			Description: truncateDescription(p.Description),
		}
	}
	c.items = items
	monitoring.GridLoads.WithLabelValues("ok").Inc()
	return nil
}

// SetQuery updates the active query and triggers a reload with it. Every
// call refetches; staleness of overlapping loads is handled at apply time.
func (c *Collection) SetQuery(ctx context.Context, query string) error {
	c.mu.Lock()
	c.query = query
	c.mu.Unlock()
	return c.Load(ctx, query)
}

// Query returns the active search query.
func (c *Collection) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Reorder moves the element at sourceIndex to destinationIndex, shifting the
// elements between them by one. It is a no-op unless the caller is
// authenticated, and a no-op for out-of-range indexes (a drop outside any
// valid target). It reports whether the sequence changed.
func (c *Collection) Reorder(sourceIndex, destinationIndex int, authenticated bool) bool {
	if !authenticated {
		monitoring.GridReorders.WithLabelValues("denied").Inc()
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	if sourceIndex < 0 || sourceIndex >= n || destinationIndex < 0 || destinationIndex >= n {
		monitoring.GridReorders.WithLabelValues("invalid").Inc()
		return false
	}
	if sourceIndex == destinationIndex {
		monitoring.GridReorders.WithLabelValues("ok").Inc()
		return true
	}

	moved := c.items[sourceIndex]
	c.items = append(c.items[:sourceIndex], c.items[sourceIndex+1:]...)
	rest := append(c.items[:destinationIndex:destinationIndex], moved)
	c.items = append(rest, c.items[destinationIndex:]...)

	monitoring.GridReorders.WithLabelValues("ok").Inc()
	return true
}

// Snapshot returns a copy of the current sequence and whether a load is in
// flight. While loading, callers render PlaceholderCount skeleton slots
// instead of items.
func (c *Collection) Snapshot() ([]models.GridItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.GridItem, len(c.items))
	copy(items, c.items)
	return items, c.inflight > 0
}

// truncateDescription keeps the first two words of the source description,
// falling back to a fixed literal when it is absent or blank.
func truncateDescription(desc *string) string {
	if desc == nil {
		return fallbackDescription
	}
	words := strings.Fields(*desc)
	if len(words) == 0 {
		return fallbackDescription
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
