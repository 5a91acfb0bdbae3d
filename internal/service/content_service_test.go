package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tcioe-dev/department-portal-api/internal/models"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func newTestContentService(upstreamURL string, cache contentCache) *ContentService {
	return NewContentService(cache, nil, zap.NewNop(),
		config.UpstreamConfig{BaseURL: upstreamURL, Timeout: 2 * time.Second},
		config.ContentConfig{Enabled: true, CacheTTL: time.Minute},
	)
}

func TestContentServiceListCachesUpstream(t *testing.T) {
	var hits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		assert.Equal(t, "/api/notices", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"Exam routine published"}]}`)) //nolint:errcheck
	}))
	defer upstream.Close()

	cache := newMemoryCache()
	svc := newTestContentService(upstream.URL, cache)

	raw, err := svc.List(context.Background(), "notices", nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Exam routine published")

	// Second read is served from cache.
	_, err = svc.List(context.Background(), "notices", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestContentServiceUnknownResource(t *testing.T) {
	svc := newTestContentService("http://127.0.0.1:0", newMemoryCache())

	_, err := svc.List(context.Background(), "grades", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestContentServiceServesStaleOnUpstreamFailure(t *testing.T) {
	var fail atomic.Bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"results":[{"title":"Department clubs"}]}`)) //nolint:errcheck
	}))
	defer upstream.Close()

	cache := newMemoryCache()
	svc := newTestContentService(upstream.URL, cache)

	_, err := svc.List(context.Background(), "clubs", nil)
	require.NoError(t, err)

	// Drop the fresh copy but keep the stale one, then break the upstream.
	delete(cache.entries, "content:clubs")
	fail.Store(true)

	raw, err := svc.List(context.Background(), "clubs", nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Department clubs")
}

func TestContentServiceUpstreamErrorWithoutCache(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svc := newTestContentService(upstream.URL, newMemoryCache())

	_, err := svc.List(context.Background(), "events", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestContentServiceSanitizesRelayedHTML(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"body":"<p>Welcome</p><script>alert(1)</script><iframe src='x'></iframe>"}]}`)) //nolint:errcheck
	}))
	defer upstream.Close()

	svc := newTestContentService(upstream.URL, newMemoryCache())

	raw, err := svc.List(context.Background(), "departments", nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<p>Welcome</p>")
	assert.NotContains(t, string(raw), "script")
	assert.NotContains(t, string(raw), "iframe")
}

func TestContentServiceAlumniGrouping(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/alumni", r.URL.Path)
		payload := map[string]interface{}{"results": []models.AlumniRecord{
			{FullName: "Sita Koirala", Program: "BEI", GraduationYear: 2024},
			{FullName: "Ram Shrestha", Program: "BEI", GraduationYear: 2024},
			{FullName: "Hari Thapa", Program: "BCT", GraduationYear: 2024},
			{FullName: "Gita Rai", Program: "BCT", GraduationYear: 2023},
		}}
		json.NewEncoder(w).Encode(payload) //nolint:errcheck
	}))
	defer upstream.Close()

	svc := newTestContentService(upstream.URL, newMemoryCache())

	groups, err := svc.Alumni(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, 2024, groups[0].Year)
	assert.Equal(t, 2023, groups[1].Year)
	require.Len(t, groups[0].Programs["BEI"], 2)
	assert.Equal(t, "Ram Shrestha", groups[0].Programs["BEI"][0].FullName)
	require.Len(t, groups[1].Programs["BCT"], 1)
}

func TestGroupSubjectsBySemester(t *testing.T) {
	groups := GroupSubjects([]models.Subject{
		{Code: "EX501", Name: "Microprocessors", Semester: 5},
		{Code: "EX451", Name: "Instrumentation", Semester: 4},
		{Code: "EX452", Name: "Numerical Methods", Semester: 4},
	})
	require.Len(t, groups, 2)
	assert.Equal(t, 4, groups[0].Semester)
	require.Len(t, groups[0].Subjects, 2)
	assert.Equal(t, "EX451", groups[0].Subjects[0].Code)
	assert.Equal(t, 5, groups[1].Semester)
}

func TestDepartmentSlugMapping(t *testing.T) {
	assert.Equal(t, "electronics-computer", models.DepartmentSlug("DOECE"))
	assert.Equal(t, "civil", models.DepartmentSlug("DOCE"))
	assert.Empty(t, models.DepartmentSlug("UNKNOWN"))
}
