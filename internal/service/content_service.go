package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tcioe-dev/department-portal-api/internal/models"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

// contentResources whitelists the relayed CMS collections. Anything not
// listed here 404s at the handler without touching the upstream.
var contentResources = map[string]string{
	"departments":    "/api/departments",
	"programs":       "/api/programs",
	"notices":        "/api/notices",
	"events":         "/api/events",
	"staff":          "/api/staff",
	"clubs":          "/api/clubs",
	"research":       "/api/research",
	"projects":       "/api/projects",
	"journal-issues": "/api/journal/issues",
	"campus-info":    "/api/campus-info",
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	iframeBlockRe = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	strayTagRe    = regexp.MustCompile(`(?i)</?(?:script|style|iframe)[^>]*>`)
)

type contentCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ContentService relays read-only CMS content with Redis caching and
// applies the grouping transforms the site renders from.
type ContentService struct {
	client  *http.Client
	cache   contentCache
	metrics *MetricsService
	logger  *zap.Logger
	base    string
	ttl     time.Duration
}

// NewContentService constructs a ContentService instance.
func NewContentService(cache contentCache, metrics *MetricsService, logger *zap.Logger, upstream config.UpstreamConfig, content config.ContentConfig) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := content.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ContentService{
		client:  &http.Client{Timeout: upstream.Timeout},
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		base:    upstream.BaseURL,
		ttl:     ttl,
	}
}

// KnownResource reports whether a resource name is relayable.
func KnownResource(name string) bool {
	_, ok := contentResources[name]
	return ok
}

// Resources lists the relayable collection names, sorted.
func Resources() []string {
	names := make([]string, 0, len(contentResources))
	for name := range contentResources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List relays one whitelisted CMS collection, serving from cache when a
// fresh copy exists.
func (s *ContentService) List(ctx context.Context, resource string, query url.Values) (json.RawMessage, error) {
	path, ok := contentResources[resource]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown content resource")
	}
	return s.cachedJSON(ctx, cacheKey(resource, query), path, query)
}

// FormDefinition fetches a dynamic registration form schema by slug.
func (s *ContentService) FormDefinition(ctx context.Context, slug string) (json.RawMessage, error) {
	return s.cachedJSON(ctx, "content:forms:"+slug, "/api/forms/"+url.PathEscape(slug), nil)
}

// Alumni fetches the alumni collection and regroups it by graduation year
// and program. Year groups come back newest first.
func (s *ContentService) Alumni(ctx context.Context, year int, program string) ([]models.AlumniYearGroup, error) {
	query := url.Values{}
	if year > 0 {
		query.Set("graduation_year", fmt.Sprint(year))
	}
	if program != "" {
		query.Set("program", program)
	}

	raw, err := s.cachedJSON(ctx, cacheKey("alumni", query), "/api/alumni", query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []models.AlumniRecord `json:"results"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected alumni payload")
	}
	return GroupAlumni(payload.Results), nil
}

// ProgramSubjects fetches a program's curriculum and groups it by semester.
func (s *ContentService) ProgramSubjects(ctx context.Context, programID string) ([]models.SemesterGroup, error) {
	raw, err := s.cachedJSON(ctx, "content:subjects:"+programID, "/api/programs/"+url.PathEscape(programID)+"/subjects", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []models.Subject `json:"results"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected subjects payload")
	}
	return GroupSubjects(payload.Results), nil
}

func (s *ContentService) cachedJSON(ctx context.Context, key, path string, query url.Values) (json.RawMessage, error) {
	var cached json.RawMessage
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
	}
	s.metrics.RecordCacheOperation(false)

	body, err := s.fetch(ctx, path, query)
	if err != nil {
		// Upstream down: fall back to the long-lived stale copy if one
		// survives, otherwise surface the upstream error.
		if s.cache != nil {
			var stale json.RawMessage
			if cacheErr := s.cache.Get(ctx, "stale:"+key, &stale); cacheErr == nil {
				s.logger.Sugar().Warnw("serving stale content, upstream unavailable", "key", key, "error", err)
				return stale, nil
			}
		}
		return nil, err
	}

	body = SanitizeHTML(body)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, json.RawMessage(body), s.ttl); err != nil {
			s.logger.Sugar().Warnw("failed to cache content", "key", key, "error", err)
		}
		if err := s.cache.Set(ctx, "stale:"+key, json.RawMessage(body), s.ttl*12); err != nil {
			s.logger.Sugar().Warnw("failed to cache stale copy", "key", key, "error", err)
		}
	}
	return body, nil
}

func (s *ContentService) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := s.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to build upstream request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, appErrors.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read upstream response")
	}
	return body, nil
}

// SanitizeHTML strips script, style and iframe markup from CMS rich text
// before it is relayed to browsers.
func SanitizeHTML(body []byte) []byte {
	body = scriptBlockRe.ReplaceAll(body, nil)
	body = styleBlockRe.ReplaceAll(body, nil)
	body = iframeBlockRe.ReplaceAll(body, nil)
	return strayTagRe.ReplaceAll(body, nil)
}

// GroupAlumni buckets alumni by graduation year, then by program within
// each year. Years sort descending, names ascending within a program.
func GroupAlumni(records []models.AlumniRecord) []models.AlumniYearGroup {
	byYear := make(map[int]map[string][]models.AlumniRecord)
	for _, r := range records {
		programs, ok := byYear[r.GraduationYear]
		if !ok {
			programs = make(map[string][]models.AlumniRecord)
			byYear[r.GraduationYear] = programs
		}
		programs[r.Program] = append(programs[r.Program], r)
	}

	groups := make([]models.AlumniYearGroup, 0, len(byYear))
	for year, programs := range byYear {
		for _, members := range programs {
			sort.Slice(members, func(i, j int) bool { return members[i].FullName < members[j].FullName })
		}
		groups = append(groups, models.AlumniYearGroup{Year: year, Programs: programs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Year > groups[j].Year })
	return groups
}

// GroupSubjects buckets curriculum subjects by semester, ascending.
func GroupSubjects(subjects []models.Subject) []models.SemesterGroup {
	bySemester := make(map[int][]models.Subject)
	for _, s := range subjects {
		bySemester[s.Semester] = append(bySemester[s.Semester], s)
	}

	groups := make([]models.SemesterGroup, 0, len(bySemester))
	for semester, list := range bySemester {
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
		groups = append(groups, models.SemesterGroup{Semester: semester, Subjects: list})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Semester < groups[j].Semester })
	return groups
}

func cacheKey(resource string, query url.Values) string {
	if len(query) == 0 {
		return "content:" + resource
	}
	return "content:" + resource + ":" + query.Encode()
}
