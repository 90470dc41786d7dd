package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/index"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/metrics"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
	"github.com/MrSnakeDoc/mindnest/internal/store/memory"
)

// brokenStore accepts reads but fails every write and ping.
type brokenStore struct {
	*memory.Store
}

func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }
func (brokenStore) Ping(context.Context) error                { return errors.New("unreachable") }

type fixture struct {
	d       deps.Deps
	handler http.Handler
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T, opts ...func(*deps.Deps)) *fixture {
	t.Helper()

	idx := index.NewCatalogIndex()
	idx.Swap(domain.NewCatalog(map[string][]*domain.ContentItem{
		"Nature": {
			{ID: "x", Title: "Silent Spring", MediaType: domain.MediaBook, Link: strPtr("https://example.com/x")},
			{ID: "y", Title: "Planet Earth", MediaType: domain.MediaVideo},
		},
		"Science": {
			{ID: "z", Title: "Cosmos", MediaType: domain.MediaBook, Link: strPtr("not a url")},
		},
	}))

	store := memory.NewStore()
	d := deps.Deps{
		Logger:        logger.Nop(),
		StartTime:     time.Now(),
		Version:       "test",
		TimeNow:       time.Now,
		CatalogFile:   "testdata/catalog.json",
		Catalog:       idx,
		Store:         store,
		StoreBackend:  "memory",
		Metrics:       metrics.New(),
		ReloadTrigger: make(chan struct{}, 1),
		RateBurst:     100,
		RatePerMin:    100,
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.Preferences == nil {
		d.Preferences = preferences.New(context.Background(), d.Store, d.Logger)
	}

	return &fixture{d: d, handler: NewRouter(d.Logger, d)}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

type itemsBody struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Fallback bool   `json:"fallback"`
	Count    int    `json:"count"`
	Items    []struct {
		ID         string `json:"id"`
		Category   string `json:"category"`
		Bookmarked bool   `json:"bookmarked"`
		HasLink    bool   `json:"has_link"`
	} `json:"items"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func itemIDs(b itemsBody) []string {
	out := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestRecommendations(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/recommendations?type=book", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[itemsBody](t, rec)
	assert.True(t, body.Fallback)
	assert.Equal(t, "Books", body.Label)
	assert.ElementsMatch(t, []string{"x", "z"}, itemIDs(body))

	rec = f.do(t, http.MethodPut, "/api/preferences/categories", `{"categories":["Science","Nature"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body = decode[itemsBody](t, f.do(t, http.MethodGet, "/api/recommendations", ""))
	assert.False(t, body.Fallback)
	assert.Equal(t, []string{"z", "x"}, itemIDs(body))
	assert.Equal(t, "Science", body.Items[0].Category)
	assert.Equal(t, "Nature", body.Items[1].Category)
}

func TestRecommendations_HasLink(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/recommendations?type=book", "")
	require.Equal(t, http.StatusOK, rec.Code)
	links := make(map[string]bool)
	for _, it := range decode[itemsBody](t, rec).Items {
		links[it.ID] = it.HasLink
	}
	assert.Equal(t, map[string]bool{"x": true, "z": true}, links)

	rec = f.do(t, http.MethodGet, "/api/recommendations?type=video", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[itemsBody](t, rec)
	require.Len(t, body.Items, 1)
	assert.False(t, body.Items[0].HasLink)
}

func TestRecommendations_InvalidType(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/recommendations?type=movie", "/api/saved?type=movie"} {
		rec := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "unknown media type")
	}
}

func TestToggleBookmark(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/bookmarks/y/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"y","bookmarked":true,"persisted":true}`, rec.Body.String())

	saved := decode[itemsBody](t, f.do(t, http.MethodGet, "/api/saved?type=video", ""))
	assert.Equal(t, []string{"y"}, itemIDs(saved))
	assert.True(t, saved.Items[0].Bookmarked)
	assert.Empty(t, decode[itemsBody](t, f.do(t, http.MethodGet, "/api/saved?type=book", "")).Items)

	rec = f.do(t, http.MethodPost, "/api/bookmarks/y/toggle", "")
	assert.JSONEq(t, `{"id":"y","bookmarked":false,"persisted":true}`, rec.Body.String())
	assert.Empty(t, f.d.Preferences.BookmarkedIDs())
}

func TestToggleBookmark_UnknownItem(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/bookmarks/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"item not found"}`, rec.Body.String())
	assert.Empty(t, f.d.Preferences.BookmarkedIDs())
}

func TestToggleBookmark_NotPersisted(t *testing.T) {
	f := newFixture(t, func(d *deps.Deps) {
		d.Store = brokenStore{Store: memory.NewStore()}
	})

	rec := f.do(t, http.MethodPost, "/api/bookmarks/x/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"x","bookmarked":true,"persisted":false}`, rec.Body.String())
	assert.True(t, f.d.Preferences.IsBookmarked("x"))

	rec = f.do(t, http.MethodPut, "/api/preferences/categories", `{"categories":["Nature"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["Nature"],"bookmarks":["x"],"persisted":false}`, rec.Body.String())
}

func TestSetCategories_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `nope`, want: "invalid request body"},
		{name: "unknown field", body: `{"cats":["Nature"]}`, want: "invalid request body"},
		{name: "blank name", body: `{"categories":["Nature","  "]}`, want: "categories must not contain empty names"},
		{name: "name too long", body: `{"categories":["` + strings.Repeat("a", 65) + `"]}`, want: "category name too long (max 64 characters)"},
		{name: "repeated name", body: `{"categories":["Nature","Science","Nature"]}`, want: "categories must not contain duplicates"},
		{name: "too many", body: `{"categories":[` + strings.TrimSuffix(strings.Repeat(`"a",`, 33), ",") + `]}`, want: "too many categories (max 32)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPut, "/api/preferences/categories", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
		})
	}
	assert.Empty(t, f.d.Preferences.SelectedCategories())
}

func TestSetCategories_EmptyClearsSelection(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPut, "/api/preferences/categories", `{"categories":["Nature"]}`)
	rec := f.do(t, http.MethodPut, "/api/preferences/categories", `{"categories":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/preferences", "")
	assert.JSONEq(t, `{"categories":[],"bookmarks":[]}`, rec.Body.String())
}

func TestOpenItem(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/items/x/open", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/x", rec.Header().Get("Location"))

	for _, id := range []string{"y", "z"} {
		rec = f.do(t, http.MethodGet, "/api/items/"+id+"/open", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, id)
		assert.JSONEq(t, `{"error":"invalid or missing link"}`, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/items/nope/open", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOpenItem_WithOpener(t *testing.T) {
	var opened []string
	f := newFixture(t, func(d *deps.Deps) {
		d.LinkOpener = domain.LinkOpenerFunc(func(_ context.Context, u *url.URL) error {
			opened = append(opened, u.String())
			return nil
		})
	})

	rec := f.do(t, http.MethodGet, "/api/items/x/open", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"x","opened":true}`, rec.Body.String())
	assert.Equal(t, []string{"https://example.com/x"}, opened)
}

func TestCatalogListings(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/categories", "")
	assert.JSONEq(t, `{"categories":["Nature","Science"]}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/interests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Interests []string `json:"interests"`
	}](t, rec)
	assert.Len(t, body.Interests, 10)
}

func TestProgress(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Week struct {
			Current string `json:"current"`
			Saved   string `json:"saved"`
			Label   string `json:"label"`
		} `json:"week"`
		Month struct {
			Saved string `json:"saved"`
		} `json:"month"`
		DailyHours []float64 `json:"daily_hours"`
	}](t, rec)
	assert.Equal(t, "20h 0m", body.Week.Current)
	assert.Equal(t, "5h 0m", body.Week.Saved)
	assert.Equal(t, "30h 0m", body.Month.Saved)
	assert.Equal(t, "-20%", body.Week.Label)
	assert.Len(t, body.DailyHours, 7)
}

func TestReadyz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ready":true}`, rec.Body.String())

	broken := newFixture(t, func(d *deps.Deps) {
		d.Store = brokenStore{Store: memory.NewStore()}
	})
	rec = broken.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"ready":false,"error":"unreachable"}`, rec.Body.String())
}

func TestInfra(t *testing.T) {
	broken := newFixture(t, func(d *deps.Deps) {
		d.Store = brokenStore{Store: memory.NewStore()}
	})
	body := decode[struct {
		Mode string `json:"mode"`
	}](t, broken.do(t, http.MethodGet, "/infra", ""))
	assert.Equal(t, "degraded", body.Mode)

	f := newFixture(t)
	f.d.Catalog.Swap(nil)
	body = decode[struct {
		Mode string `json:"mode"`
	}](t, f.do(t, http.MethodGet, "/infra", ""))
	assert.Equal(t, "critical", body.Mode)
}

func TestReload(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// trigger channel holds one pending reload
	rec = f.do(t, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	<-f.d.ReloadTrigger
	rec = f.do(t, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestAdminEndpointsRestricted(t *testing.T) {
	f := newFixture(t, func(d *deps.Deps) {
		d.AllowedCIDRS = []string{"10.0.0.0/8"}
	})

	for _, path := range []string{"/readyz", "/infra", "/metrics"} {
		rec := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	t.Cleanup(f.d.Metrics.ObservePreferences(f.d.Preferences))

	f.do(t, http.MethodPost, "/api/bookmarks/x/toggle", "")
	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	out := rec.Body.String()
	assert.Contains(t, out, `mindnest_bookmark_toggles_total{state="added"} 1`)
	assert.Contains(t, out, `mindnest_http_requests_total{method="POST",route="/api/bookmarks/{id}/toggle",status="200"} 1`)
}

func TestNotFoundIsJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/api/preferences", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
