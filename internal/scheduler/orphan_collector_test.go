package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/index"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
	"github.com/MrSnakeDoc/mindnest/internal/store/memory"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newCollector(t *testing.T, c *domain.Catalog, bookmarks ...string) (*OrphanCollector, *preferences.Store, *fakeClock) {
	t.Helper()
	ctx := context.Background()

	prefs := preferences.New(ctx, memory.NewStore(), logger.Nop())
	for _, id := range bookmarks {
		_, err := prefs.ToggleBookmark(ctx, id)
		require.NoError(t, err)
	}

	idx := index.NewCatalogIndex()
	idx.Swap(c)

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	oc := NewOrphanCollector(prefs, idx, logger.Nop(), time.Hour, 30*24*time.Hour)
	oc.now = clock.Now
	return oc, prefs, clock
}

func TestOrphanCollector_Collect(t *testing.T) {
	ctx := context.Background()
	oc, prefs, clock := newCollector(t, catalogOf("live"), "live", "gone")

	// first sighting only starts the clock
	removed, err := oc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, prefs.IsBookmarked("gone"))

	clock.Advance(10 * 24 * time.Hour)
	removed, err = oc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	clock.Advance(25 * 24 * time.Hour)
	removed, err = oc.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.Equal(t, []string{"live"}, prefs.BookmarkedIDs())
}

func TestOrphanCollector_SkipsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	oc, prefs, clock := newCollector(t, domain.EmptyCatalog(), "a")

	for i := 0; i < 3; i++ {
		removed, err := oc.Collect(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)
		clock.Advance(40 * 24 * time.Hour)
	}
	assert.True(t, prefs.IsBookmarked("a"))
}

func TestOrphanCollector_ForgetsReturningItems(t *testing.T) {
	ctx := context.Background()
	oc, prefs, clock := newCollector(t, catalogOf("other"), "a")

	_, err := oc.Collect(ctx)
	require.NoError(t, err)

	// item comes back before the threshold
	clock.Advance(20 * 24 * time.Hour)
	oc.index.Swap(catalogOf("a"))
	_, err = oc.Collect(ctx)
	require.NoError(t, err)

	// and disappears again: the clock restarts
	oc.index.Swap(catalogOf("other"))
	clock.Advance(time.Hour)
	_, err = oc.Collect(ctx)
	require.NoError(t, err)

	clock.Advance(20 * 24 * time.Hour)
	removed, err := oc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, prefs.IsBookmarked("a"))
}

func TestOrphanCollector_RestartRestartsClock(t *testing.T) {
	ctx := context.Background()
	oc, prefs, clock := newCollector(t, catalogOf("other"), "a")

	_, err := oc.Collect(ctx)
	require.NoError(t, err)
	clock.Advance(20 * 24 * time.Hour)

	// a new process only knows what it has seen itself
	restarted := NewOrphanCollector(prefs, oc.index, logger.Nop(), time.Hour, 30*24*time.Hour)
	restarted.now = clock.Now
	_, err = restarted.Collect(ctx)
	require.NoError(t, err)

	clock.Advance(15 * 24 * time.Hour)
	removed, err := restarted.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, prefs.IsBookmarked("a"))

	clock.Advance(15 * 24 * time.Hour)
	removed, err = restarted.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestNewOrphanCollector_DefaultThreshold(t *testing.T) {
	oc := NewOrphanCollector(nil, index.NewCatalogIndex(), logger.Nop(), time.Hour, 0)
	assert.Equal(t, DefaultOrphanThreshold, oc.threshold)
}
