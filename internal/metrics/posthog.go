package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a service constructed without required settings.
var ErrInvalidConfig = errors.New("metrics: invalid configuration")

// Periods accepted by UniqueVisitors.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// allTimeStart anchors the "all" period; analytics collection began here.
var allTimeStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultCacheTTL bounds how long visitor counts are reused before the
// analytics API is queried again.
const DefaultCacheTTL = time.Hour

// Visitors is the payload returned per period. A degraded lookup yields a
// zeroed count, never an error, so the widget renders an empty state.
type Visitors struct {
	Period   string `json:"period"`
	Visitors int    `json:"visitors"`
}

// Config wires the analytics proxy.
type Config struct {
	// APIKey authenticates query requests; empty disables the API entirely.
	APIKey string
	// ProjectID selects the analytics project.
	ProjectID string
	// BaseURL overrides the API origin (tests point it at a stub).
	BaseURL string
	// HTTPClient performs API calls; defaults to a client with a short timeout.
	HTTPClient *http.Client
	// CacheTTL bounds cached counts; defaults to DefaultCacheTTL.
	CacheTTL time.Duration
	// Now supplies period boundaries; defaults to time.Now.
	Now func() time.Time
	// Logger receives proxy events; defaults to a no-op.
	Logger interfaces.Logger
}

// Service proxies unique-visitor counts from a PostHog-style analytics API.
// Counts are cached behind an explicit TTL cache held by the service; there
// is no process-global state.
type Service struct {
	apiKey    string
	projectID string
	baseURL   string
	client    *http.Client
	cache     *sturdyc.Client[int]
	now       func() time.Time
	logger    interfaces.Logger
}

// NewService builds an analytics proxy from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("%w: project id required", ErrInvalidConfig)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://us.posthog.com"
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		projectID: strings.TrimSpace(cfg.ProjectID),
		baseURL:   base,
		client:    client,
		cache:     sturdyc.New[int](256, 8, ttl, 10),
		now:       now,
		logger:    logger,
	}, nil
}

// UniqueVisitors returns the distinct-visitor count for the period. Unknown
// periods and upstream failures degrade to a zeroed payload with a warning;
// the method never surfaces an error to the handler.
func (s *Service) UniqueVisitors(ctx context.Context, period string) Visitors {
	period = strings.ToLower(strings.TrimSpace(period))
	from, ok := s.periodStart(period)
	if !ok {
		s.logger.Warn("unknown analytics period", "period", period)
		return Visitors{Period: period}
	}

	if s.apiKey == "" {
		s.logger.Debug("analytics key missing, returning zeroed payload", "period", period)
		return Visitors{Period: period}
	}

	count, err := s.cache.GetOrFetch(ctx, "visitors:"+period, func(ctx context.Context) (int, error) {
		return s.queryUniqueVisitors(ctx, from)
	})
	if err != nil {
		s.logger.Warn("analytics query failed", "period", period, "error", err)
		return Visitors{Period: period}
	}

	return Visitors{Period: period, Visitors: count}
}

// AllPeriods returns counts for every known period, for the all=true widget view.
func (s *Service) AllPeriods(ctx context.Context) []Visitors {
	periods := []string{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}
	results := make([]Visitors, 0, len(periods))
	for _, period := range periods {
		results = append(results, s.UniqueVisitors(ctx, period))
	}
	return results
}

func (s *Service) periodStart(period string) (time.Time, bool) {
	now := s.now().UTC()
	switch period {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	case PeriodAll:
		return allTimeStart, true
	default:
		return time.Time{}, false
	}
}

type hogQLRequest struct {
	Query hogQLQuery `json:"query"`
}

type hogQLQuery struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

type hogQLResponse struct {
	Results [][]any `json:"results"`
}

func (s *Service) queryUniqueVisitors(ctx context.Context, from time.Time) (int, error) {
	statement := fmt.Sprintf(
		"SELECT count(DISTINCT person_id) FROM events WHERE event = '$pageview' AND timestamp >= '%s'",
		from.Format("2006-01-02 15:04:05"),
	)

	payload, err := json.Marshal(hogQLRequest{Query: hogQLQuery{Kind: "HogQLQuery", Query: statement}})
	if err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("%s/api/projects/%s/query", s.baseURL, s.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	res, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("metrics: unexpected status %d", res.StatusCode)
	}

	var body hogQLResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("metrics: decode response: %w", err)
	}

	if len(body.Results) == 0 || len(body.Results[0]) == 0 {
		return 0, nil
	}

	switch value := body.Results[0][0].(type) {
	case float64:
		return int(value), nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("metrics: unexpected result type %T", value)
	}
}
