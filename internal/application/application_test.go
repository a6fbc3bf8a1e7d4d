package application

import (
	"context"
	"os"
	"path/filepath"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/mail"
	"seomonitor-backend/internal/components/random"
	"seomonitor-backend/internal/components/testutil"
	"seomonitor-backend/internal/ranking"
	"seomonitor-backend/internal/store"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{
		// comments are allowed
		database: { file: ":memory:" },
		serpapi: { api_key: "from-file" },
		smtp: { server: "smtp.example.com", port: 587 },
		daemons: { tracking_spec: "0 5 * * *" },
	}`), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		smtp: { port: 2525 },
	}`), 0666))

	t.Setenv("SERPAPI_API_KEY", "")
	t.Setenv("SEOMONITOR_ACCESS_TOKEN", "from-env")

	cfg, err := ReadConfig(name)
	require.NoError(t, err)
	require.Equal(t, ":memory:", cfg.Database.File)
	require.Equal(t, "from-file", cfg.SerpAPI.APIKey)
	require.Equal(t, "smtp.example.com", cfg.SMTP.Server)
	require.Equal(t, 2525, cfg.SMTP.Port)
	require.Equal(t, "0 5 * * *", cfg.Daemons.TrackingSpec)
	require.Equal(t, "from-env", cfg.Http.AccessToken)
	require.Equal(t, DefaultPort, cfg.Http.Port)

	_, err = ReadConfig(filepath.Join(dir, "missing.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestNewSimulated(t *testing.T) {
	clock := testutil.NewClock(time.Date(2024, 8, 1, 9, 0, 0, 0, chrono.Taipei()))
	_, err := New(
		Config{},
		WithTimeAPI(clock),
		WithRandomAPI(random.NewSeeded(1)),
		WithMailer(&nopMailer{}),
		WithTelemetryAPI(&testutil.Telemetry{}),
	)
	// no database configured
	require.Error(t, err)

	cfg := Config{}
	cfg.Database.File = ":memory:"
	app, err := New(cfg, WithTimeAPI(clock), WithRandomAPI(random.NewSeeded(1)), WithMailer(&nopMailer{}))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	require.True(t, app.Simulated)

	ctx := context.Background()
	website, err := app.Store.CreateWebsite(ctx, store.NewWebsite{URL: "https://example.com"})
	require.NoError(t, err)
	keyword, err := app.Store.AddKeyword(ctx, website.ID, "coffee")
	require.NoError(t, err)

	result, err := app.Updater.UpdateEntity(ctx, keyword.Ref())
	require.NoError(t, err)
	require.Equal(t, ranking.StateUpdated, result.State)
	require.GreaterOrEqual(t, *result.Ranking, 1)
	require.LessOrEqual(t, *result.Ranking, ranking.DefaultMaxSimulatedRanking)

	rep, err := app.Aggregator.Generate(ctx, website.ID)
	require.NoError(t, err)
	require.NoError(t, rep.Scores.Validate())
}

type nopMailer struct{}

func (*nopMailer) Send(context.Context, mail.Message) error {
	return nil
}
