package cricapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.cricapi.com/v1"
	maxResponseSize = 4 << 20
)

var (
	errTransient     = crerr.New("cricapi transient failure")
	errRejected      = crerr.New("cricapi rejected request")
	apiKeyParamRegex = regexp.MustCompile(`apikey=[^&\s"']+`)
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads series, match info and scorecards from the CricAPI v1 endpoints.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("cricapi")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("cricapi circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      breaker,
	}
}

func (c *Client) ListSeriesMatches(ctx context.Context, seriesID string) ([]usecase.ProviderMatch, error) {
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return nil, fmt.Errorf("series id is required")
	}

	raw, err := c.get(ctx, "/series_info", map[string]string{"id": seriesID})
	if err != nil {
		return nil, fmt.Errorf("fetch series info series_id=%s: %w", seriesID, err)
	}
	data, err := decodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("decode series info series_id=%s: %w", seriesID, err)
	}

	info := asMap(data["info"])
	seriesName := getStringAny(info, "name", "series_name", "seriesName")
	items := getSliceAny(data, "matchList", "match_list", "matches")
	out := make([]usecase.ProviderMatch, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		match := parseMatch(m)
		if match.ID == "" {
			continue
		}
		if match.SeriesID == "" {
			match.SeriesID = seriesID
		}
		if match.SeriesName == "" {
			match.SeriesName = seriesName
		}
		out = append(out, match)
	}
	return out, nil
}

func (c *Client) FetchMatchInfo(ctx context.Context, matchID string) (usecase.ProviderMatchInfo, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ProviderMatchInfo{}, fmt.Errorf("match id is required")
	}

	raw, err := c.get(ctx, "/match_info", map[string]string{"id": matchID})
	if err != nil {
		return usecase.ProviderMatchInfo{}, fmt.Errorf("fetch match info match_id=%s: %w", matchID, err)
	}
	data, err := decodeData(raw)
	if err != nil {
		return usecase.ProviderMatchInfo{}, fmt.Errorf("decode match info match_id=%s: %w", matchID, err)
	}

	match := parseMatch(data)
	if match.ID == "" {
		match.ID = matchID
	}
	return usecase.ProviderMatchInfo{
		ID:          match.ID,
		Status:      match.Status,
		Completed:   match.Completed,
		Teams:       match.Teams,
		PlayingXI:   getNamesAny(data, "playingXI", "playing_xi", "playing11", "lineup"),
		Substitutes: getNamesAny(data, "substitutes", "subs", "impactPlayers", "bench"),
	}, nil
}

// FetchScorecard returns the response body untouched; the scorecard decoder owns its shape.
func (c *Client) FetchScorecard(ctx context.Context, matchID string) ([]byte, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	raw, err := c.get(ctx, "/match_scorecard", map[string]string{"id": matchID})
	if err != nil {
		return nil, fmt.Errorf("fetch scorecard match_id=%s: %w", matchID, err)
	}
	if _, err := decodeData(raw); err != nil {
		return nil, fmt.Errorf("scorecard match_id=%s: %w", matchID, err)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("apikey", c.apiKey)
	fullURL := c.baseURL + path + "?" + values.Encode()

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		var raw []byte
		err := c.breaker.Do(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		return raw, err
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "cricapi circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return nil, fmt.Errorf("%w: cricket data provider is temporarily unavailable", usecase.ErrProviderUnavailable)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(fmt.Errorf("send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey)), errTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(fmt.Errorf("read response body: %w", readErr), errTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errTransient)
			default:
				return nil, crerr.Mark(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errRejected)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "cricapi request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// decodeData checks the response envelope and returns its data object.
func decodeData(raw []byte) (map[string]any, error) {
	var envelope map[string]any
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}
	if status := strings.ToLower(getString(envelope, "status")); status == "failure" || status == "error" {
		reason := getStringAny(envelope, "reason", "message", "error")
		return nil, crerr.Mark(fmt.Errorf("provider failure: %s", reason), errRejected)
	}
	if data := asMap(envelope["data"]); data != nil {
		return data, nil
	}
	return envelope, nil
}

func parseMatch(m map[string]any) usecase.ProviderMatch {
	ended, _ := getBoolAny(m, "matchEnded", "match_ended", "ended", "isCompleted")
	return usecase.ProviderMatch{
		ID:         getStringAny(m, "id", "match_id", "matchId", "unique_id"),
		Name:       getStringAny(m, "name", "title"),
		SeriesID:   getStringAny(m, "series_id", "seriesId"),
		SeriesName: getStringAny(m, "series", "series_name", "seriesName"),
		Status:     getStringAny(m, "status", "statusText", "result"),
		Completed:  ended,
		StartAt:    parseProviderDateTime(getStringAny(m, "dateTimeGMT", "date_time_gmt", "startTime", "date")),
		Teams:      getNamesAny(m, "teams", "teamInfo"),
	}
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apikey=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitizeSensitiveText(rawURL, "")
	}
	query := parsed.Query()
	if query.Has("apikey") {
		query.Set("apikey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
