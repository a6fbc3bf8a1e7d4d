package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/telemetry"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_query = "client.query"
	report_client_parse = "client.parse"
)

// Config configures the SerpAPI client, zero values fall back to the defaults.
type Config struct {
	BaseURL           string  `json:"base_url"`
	APIKey            string  `json:"api_key"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

const (
	defaultBaseURL = "https://serpapi.com"
	defaultTimeout = 30 * time.Second
	defaultRPS     = 2
)

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
}

type searchResponse struct {
	Error             string          `json:"error"`
	OrganicResults    []organicResult `json:"organic_results"`
	SearchInformation struct {
		TotalResults int64 `json:"total_results"`
	} `json:"search_information"`
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
}

// SerpAPIClient queries google through serpapi.com.
type SerpAPIClient struct {
	http   *resty.Client
	apiKey string
	tel    telemetry.API
}

func NewSerpAPIClient(config Config, tel telemetry.API) *SerpAPIClient {
	tel = telemetry.NewScopedAPI("serpapi", tel)

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := defaultTimeout
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}

	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetBaseURL(baseURL)

	// burst >= 1 so the first request of a batch never waits
	rateLimiter := rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})
	telemetry.InstrumentResty(httpClient, "internal/serp", tel)

	return &SerpAPIClient{
		http:   httpClient,
		apiKey: config.APIKey,
		tel:    tel,
	}
}

func (c *SerpAPIClient) Query(ctx context.Context, query Query) (Results, error) {
	c.tel.ReportDebug(report_client_query, query.Keyword, query.Locale.Location)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":  c.apiKey,
			"engine":   "google",
			"q":        query.Keyword,
			"location": query.Locale.Location,
			"hl":       query.Locale.Language,
			"gl":       query.Locale.Country,
			"num":      strconv.Itoa(query.Limit),
		}).
		Get("/search")
	if err != nil {
		c.tel.ReportWarning(report_client_query, query.Keyword, err)
		return Results{}, apperr.Upstream(0, err)
	}
	if res.IsError() {
		err = fmt.Errorf("serpapi: %s", truncate(res.String(), 200))
		c.tel.ReportWarning(report_client_query, query.Keyword, res.StatusCode(), err)
		return Results{}, apperr.Upstream(res.StatusCode(), err)
	}

	var body searchResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		c.tel.ReportBroken(report_client_parse, query.Keyword, err)
		return Results{}, apperr.Upstream(res.StatusCode(), fmt.Errorf("decode response: %w", err))
	}
	if body.Error != "" {
		if noResults(body) {
			c.tel.ReportDebug(report_client_query, query.Keyword, body.Error)
			return Results{}, nil
		}
		err = fmt.Errorf("serpapi: %s", truncate(body.Error, 200))
		c.tel.ReportWarning(report_client_query, query.Keyword, err)
		return Results{}, apperr.Upstream(res.StatusCode(), err)
	}

	results := Results{
		Organic:      make([]Organic, len(body.OrganicResults)),
		TotalResults: body.SearchInformation.TotalResults,
	}
	for i, r := range body.OrganicResults {
		results.Organic[i] = Organic{Position: r.Position, URL: r.Link}
	}
	return results, nil
}

// noResults reports whether an error body only means the search came back empty, which
// serpapi signals with a successful search and an error message.
func noResults(body searchResponse) bool {
	if len(body.OrganicResults) > 0 {
		return false
	}
	return body.SearchMetadata.Status == "Success" ||
		strings.Contains(body.Error, "hasn't returned any results")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
