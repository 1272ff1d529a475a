package grid

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapgrid/snapgrid-be/internal/apperrors"
	"github.com/snapgrid/snapgrid-be/internal/models"
	"github.com/snapgrid/snapgrid-be/internal/unsplash"
)

type funcSearcher func(ctx context.Context, query string, count int) ([]unsplash.Photo, error)

func (f funcSearcher) RandomPhotos(ctx context.Context, query string, count int) ([]unsplash.Photo, error) {
	return f(ctx, query, count)
}

type nopEvents struct{}

func (nopEvents) CreateEvent(eventType, level, message string, userID *string) error { return nil }
func (nopEvents) GetRecentEvents(limit int) ([]models.Event, error)                  { return nil, nil }

func strptr(s string) *string { return &s }

func makePhotos(n int) []unsplash.Photo {
	photos := make([]unsplash.Photo, n)
	for i := range photos {
		photos[i] = unsplash.Photo{
			URLs:        unsplash.PhotoURLs{Regular: fmt.Sprintf("https://images.test/%d", i)},
			Description: strptr(fmt.Sprintf("photo number %d here", i)),
		}
	}
	return photos
}

func fixedSearcher(photos []unsplash.Photo) funcSearcher {
	return func(ctx context.Context, query string, count int) ([]unsplash.Photo, error) {
		return photos, nil
	}
}

func loadedCollection(t *testing.T, n int) *Collection {
	t.Helper()
	c := NewCollection(fixedSearcher(makePhotos(n)), nopEvents{})
	require.NoError(t, c.Load(context.Background(), ""))
	return c
}

func ids(items []models.GridItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestLoadTruncatesToDisplayCount(t *testing.T) {
	c := loadedCollection(t, 12)

	items, loading := c.Snapshot()
	assert.False(t, loading)
	require.Len(t, items, DisplayCount)

	seen := make(map[string]bool)
	for _, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestLoadDescriptions(t *testing.T) {
	photos := []unsplash.Photo{
		{URLs: unsplash.PhotoURLs{Regular: "u0"}, Description: strptr("a very long caption indeed")},
		{URLs: unsplash.PhotoURLs{Regular: "u1"}, Description: strptr("single")},
		{URLs: unsplash.PhotoURLs{Regular: "u2"}, Description: nil},
		{URLs: unsplash.PhotoURLs{Regular: "u3"}, Description: strptr("")},
		{URLs: unsplash.PhotoURLs{Regular: "u4"}, Description: strptr("   ")},
	}
	c := NewCollection(fixedSearcher(photos), nopEvents{})
	require.NoError(t, c.Load(context.Background(), ""))

	items, _ := c.Snapshot()
	require.Len(t, items, 5)
	assert.Equal(t, "a very", items[0].Description)
	assert.Equal(t, "single", items[1].Description)
	assert.Equal(t, "No description available", items[2].Description)
	assert.Equal(t, "No description available", items[3].Description)
	assert.Equal(t, "No description available", items[4].Description)
}

func TestLoadFailureKeepsPreviousSequence(t *testing.T) {
	calls := 0
	searcher := funcSearcher(func(ctx context.Context, query string, count int) ([]unsplash.Photo, error) {
		calls++
		if calls > 1 {
			return nil, fmt.Errorf("%w: connection refused", apperrors.ErrTransport)
		}
		return makePhotos(3), nil
	})
	c := NewCollection(searcher, nopEvents{})
	require.NoError(t, c.Load(context.Background(), ""))
	before, _ := c.Snapshot()

	err := c.Load(context.Background(), "cats")
	require.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Equal(t, 2, calls, "no automatic retry")

	after, _ := c.Snapshot()
	assert.Equal(t, before, after)
}

func TestStaleResponseDiscarded(t *testing.T) {
	oldStarted := make(chan struct{})
	release := make(chan struct{})
	searcher := funcSearcher(func(ctx context.Context, query string, count int) ([]unsplash.Photo, error) {
		if query == "old" {
			close(oldStarted)
			<-release
			return []unsplash.Photo{{URLs: unsplash.PhotoURLs{Regular: "stale"}, Description: strptr("stale")}}, nil
		}
		return []unsplash.Photo{{URLs: unsplash.PhotoURLs{Regular: "fresh"}, Description: strptr("fresh")}}, nil
	})

	c := NewCollection(searcher, nopEvents{})

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background(), "old") }()
	<-oldStarted

	// The newer query resolves first.
	require.NoError(t, c.Load(context.Background(), "new"))

	// Now the stale response arrives; it must not overwrite the fresh one.
	close(release)
	require.NoError(t, <-done)

	items, _ := c.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ImageURL)
}

func TestSnapshotReportsLoading(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	searcher := funcSearcher(func(ctx context.Context, query string, count int) ([]unsplash.Photo, error) {
		close(started)
		<-release
		return makePhotos(2), nil
	})
	c := NewCollection(searcher, nopEvents{})

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background(), "") }()
	<-started

	_, loading := c.Snapshot()
	assert.True(t, loading)

	close(release)
	require.NoError(t, <-done)
	_, loading = c.Snapshot()
	assert.False(t, loading)
}

func TestReorderIsAPermutation(t *testing.T) {
	for src := 0; src < DisplayCount; src++ {
		for dst := 0; dst < DisplayCount; dst++ {
			c := loadedCollection(t, 12)
			before, _ := c.Snapshot()

			assert.True(t, c.Reorder(src, dst, true))

			after, _ := c.Snapshot()
			require.Len(t, after, len(before))

			// Same multiset of ids.
			assert.ElementsMatch(t, ids(before), ids(after))

			// The moved item landed at the destination.
			assert.Equal(t, before[src].ID, after[dst].ID)

			// Everything else kept its relative order.
			var restBefore, restAfter []string
			for i, item := range before {
				if i != src {
					restBefore = append(restBefore, item.ID)
				}
			}
			for i, item := range after {
				if i != dst {
					restAfter = append(restAfter, item.ID)
				}
			}
			assert.Equal(t, restBefore, restAfter, "src=%d dst=%d", src, dst)
		}
	}
}

func TestReorderDeniedWhenAnonymous(t *testing.T) {
	c := loadedCollection(t, 12)
	before, _ := c.Snapshot()

	assert.False(t, c.Reorder(0, 5, false))

	after, _ := c.Snapshot()
	assert.Equal(t, before, after)
}

func TestReorderInvalidIndexesAreNoOps(t *testing.T) {
	c := loadedCollection(t, 12)
	before, _ := c.Snapshot()

	assert.False(t, c.Reorder(0, -1, true))
	assert.False(t, c.Reorder(0, DisplayCount, true))
	assert.False(t, c.Reorder(-1, 0, true))
	assert.False(t, c.Reorder(DisplayCount, 0, true))

	after, _ := c.Snapshot()
	assert.Equal(t, before, after)
}

func TestSetQueryUpdatesQueryAndReloads(t *testing.T) {
	var lastQuery string
	searcher := funcSearcher(func(ctx context.Context, query string, count int) ([]unsplash.Photo, error) {
		lastQuery = query
		assert.Equal(t, FetchCount, count)
		return makePhotos(1), nil
	})
	c := NewCollection(searcher, nopEvents{})

	require.NoError(t, c.SetQuery(context.Background(), "mountains"))
	assert.Equal(t, "mountains", c.Query())
	assert.Equal(t, "mountains", lastQuery)

	items, _ := c.Snapshot()
	assert.Len(t, items, 1)
}
