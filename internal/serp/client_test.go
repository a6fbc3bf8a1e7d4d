package serp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/testutil"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSerpAPIClientQuery(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{"position": 1, "title": "a", "link": "https://other.org/"},
				{"position": 2, "title": "b", "link": "https://www.example.com/page"},
			},
			"search_information": map[string]any{"total_results": 12345},
		})
	}))
	defer server.Close()

	client := NewSerpAPIClient(Config{BaseURL: server.URL, APIKey: "secret", RequestsPerSecond: 100}, &testutil.Telemetry{})
	results, err := client.Query(context.Background(), Query{
		Keyword: "台北 咖啡",
		Locale:  TaiwanChinese,
		Limit:   DefaultLimit,
	})
	require.NoError(t, err)

	expectedQuery := map[string]string{
		"api_key":  "secret",
		"engine":   "google",
		"q":        "台北 咖啡",
		"location": "Taiwan",
		"hl":       "zh-TW",
		"gl":       "tw",
		"num":      "100",
	}
	if diff := cmp.Diff(expectedQuery, gotQuery); diff != "" {
		t.Fatal(diff)
	}
	expected := Results{
		Organic: []Organic{
			{Position: 1, URL: "https://other.org/"},
			{Position: 2, URL: "https://www.example.com/page"},
		},
		TotalResults: 12345,
	}
	if diff := cmp.Diff(expected, results); diff != "" {
		t.Fatal(diff)
	}
}

func TestSerpAPIClientErrors(t *testing.T) {
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		statusCode int
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"Invalid API key."}`, http.StatusUnauthorized)
			},
			statusCode: http.StatusUnauthorized,
		},
		{
			name: "error in body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"search_metadata":{"status":"Error"},"error":"Your account has run out of searches."}`))
			},
			statusCode: http.StatusOK,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			statusCode: http.StatusOK,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(test.handler)
			defer server.Close()

			client := NewSerpAPIClient(Config{BaseURL: server.URL, RequestsPerSecond: 100}, &testutil.Telemetry{})
			_, err := client.Query(context.Background(), Query{Keyword: "x", Locale: TaiwanChinese, Limit: 100})
			require.Error(t, err)

			var upstream apperr.UpstreamError
			require.True(t, errors.As(err, &upstream))
			require.Equal(t, test.statusCode, upstream.StatusCode)
		})
	}
}

func TestSerpAPIClientNoResults(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "successful search",
			body: `{"search_metadata":{"status":"Success"},"search_information":{"total_results":0},"error":"Google hasn't returned any results for this query."}`,
		},
		{
			name: "message only",
			body: `{"error":"Google hasn't returned any results for this query."}`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(test.body))
			}))
			defer server.Close()

			client := NewSerpAPIClient(Config{BaseURL: server.URL, RequestsPerSecond: 100}, &testutil.Telemetry{})
			results, err := client.Query(context.Background(), Query{Keyword: "冷門關鍵字", Locale: TaiwanChinese, Limit: 100})
			require.NoError(t, err)
			require.Empty(t, results.Organic)

			fetcher := NewFetcher(client, &testutil.Telemetry{})
			result, err := fetcher.FetchRanking(context.Background(), "冷門關鍵字", "https://www.example.com")
			require.NoError(t, err)
			require.Nil(t, result.Ranking)
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("查無結果", 100)
	out := truncate(long, 200)
	require.True(t, utf8.ValidString(out))
	require.Equal(t, 203, utf8.RuneCountInString(out))
	require.Equal(t, "短訊息", truncate("短訊息", 200))
}

func TestSerpAPIClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewSerpAPIClient(Config{BaseURL: server.URL, RequestsPerSecond: 100}, &testutil.Telemetry{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Query(ctx, Query{Keyword: "x", Locale: TaiwanChinese, Limit: 100})
	require.True(t, apperr.IsUpstream(err))
}
