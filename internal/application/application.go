// Package application wires the pipeline's components together from a Config.
package application

import (
	"context"
	"database/sql"
	"log/slog"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/config"
	"seomonitor-backend/internal/components/db"
	"seomonitor-backend/internal/components/mail"
	"seomonitor-backend/internal/components/random"
	"seomonitor-backend/internal/components/telemetry"
	"seomonitor-backend/internal/ranking"
	"seomonitor-backend/internal/report"
	"seomonitor-backend/internal/serp"
	"seomonitor-backend/internal/service"
	"seomonitor-backend/internal/store"
)

type HttpConfig struct {
	Port        int    `json:"port"`
	AccessToken string `json:"access_token"`
}

type Config struct {
	Database config.Database       `json:"database"`
	SerpAPI  serp.Config           `json:"serpapi"`
	Ranking  ranking.Config        `json:"ranking"`
	SMTP     mail.Config           `json:"smtp"`
	Dispatch report.DispatchConfig `json:"dispatch"`
	Daemons  service.DaemonConfig  `json:"daemons"`
	Http     HttpConfig            `json:"http"`
	// Simulate draws rankings at random instead of querying the search provider, it is
	// implied when no api key is configured.
	Simulate bool `json:"simulate"`
}

const DefaultPort = 8000

// ReadConfig reads config.json5 (and its local overrides) and fills in secrets from
// the environment, a .env file in the working directory is loaded first.
func ReadConfig(name string) (Config, error) {
	config.LoadDotenv()
	cfg, err := config.ReadConfig[Config](name)
	if err != nil {
		return Config{}, err
	}
	cfg.SerpAPI.APIKey = config.Secret("SERPAPI_API_KEY", cfg.SerpAPI.APIKey)
	cfg.SMTP.Password = config.Secret("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.Http.AccessToken = config.Secret("SEOMONITOR_ACCESS_TOKEN", cfg.Http.AccessToken)
	if cfg.Http.Port == 0 {
		cfg.Http.Port = DefaultPort
	}
	return cfg, nil
}

// App holds every component of a running pipeline.
type App struct {
	DB         *sql.DB
	Store      store.Store
	Updater    ranking.Updater
	Aggregator report.Aggregator
	Dispatcher report.Dispatcher
	Service    service.Service
	Simulated  bool
}

type options struct {
	time   chrono.TimeAPI
	rand   random.API
	mailer mail.Mailer
	tel    telemetry.API
}

type Option func(opts *options)

func WithTimeAPI(time chrono.TimeAPI) Option {
	return func(opts *options) {
		opts.time = time
	}
}

func WithRandomAPI(rand random.API) Option {
	return func(opts *options) {
		opts.rand = rand
	}
}

func WithMailer(mailer mail.Mailer) Option {
	return func(opts *options) {
		opts.mailer = mailer
	}
}

func WithTelemetryAPI(tel telemetry.API) Option {
	return func(opts *options) {
		opts.tel = tel
	}
}

// New opens the database and builds the pipeline, the caller owns App.DB.
func New(cfg Config, opts ...Option) (App, error) {
	o := options{
		time: chrono.NewStandardTime(),
		rand: random.NewTimeSeeded(),
		tel:  telemetry.SlogAPI{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mailer == nil {
		o.mailer = mail.NewSMTPMailer(cfg.SMTP)
	}

	sqldb, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		return App{}, err
	}

	s := store.New(sqldb, o.time, o.tel)

	simulated := cfg.Simulate || cfg.SerpAPI.APIKey == ""
	var source ranking.Source
	if simulated {
		slog.Warn("no search provider configured, rankings will be simulated")
		source = ranking.NewSimulatedSource(o.rand, ranking.DefaultMaxSimulatedRanking)
	} else {
		client := serp.NewSerpAPIClient(cfg.SerpAPI, o.tel)
		source = ranking.NewFetcherSource(serp.NewFetcher(client, o.tel))
	}

	updater := ranking.NewUpdater(s, source, cfg.Ranking, o.tel)
	aggregator := report.NewAggregator(s, updater, report.NewSimulatedAnalyzer(o.rand), o.time, o.tel)
	dispatcher := report.NewDispatcher(s, o.mailer, cfg.Dispatch, o.time, o.tel)

	return App{
		DB:         sqldb,
		Store:      s,
		Updater:    updater,
		Aggregator: aggregator,
		Dispatcher: dispatcher,
		Service:    service.NewService(updater, aggregator, dispatcher, o.tel),
		Simulated:  simulated,
	}, nil
}

// Close releases the database.
func (a App) Close() error {
	return a.DB.Close()
}

// StartDaemons registers the scheduled jobs on a new cron and starts it, the cron is
// stopped once ctx is done.
func (a App) StartDaemons(ctx context.Context, cfg Config, tel telemetry.API) error {
	cron := chrono.NewStandardCron(tel)
	err := a.Service.RegisterDaemons(ctx, cron, cfg.Daemons)
	if err != nil {
		return err
	}
	cron.Start()
	go func() {
		<-ctx.Done()
		cron.Stop()
	}()
	return nil
}
