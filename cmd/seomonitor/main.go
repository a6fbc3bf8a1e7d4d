package main

import (
	"context"
	"flag"
	"log/slog"
	"seomonitor-backend/internal/application"
	"seomonitor-backend/internal/components/serviceutil"
	"seomonitor-backend/internal/components/telemetry"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the configuration file.")
	trackNow := flag.Bool("track", false, "Refresh every tracked ranking immediately on run.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	otel, err := telemetry.SetupFromEnv(ctx, "seomonitor")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer otel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := application.ReadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	app, err := application.New(cfg)
	if err != nil {
		serviceutil.Fatal("init application", err)
	}
	defer app.Close()

	err = app.StartDaemons(ctx, cfg, telemetry.SlogAPI{})
	if err != nil {
		serviceutil.Fatal("start daemons", err)
	}

	if *trackNow {
		go func() {
			summary, err := app.Service.TrackAll(ctx)
			if err != nil {
				slog.Error("initial tracking failed", "err", err)
				return
			}
			slog.Info("initial tracking finished", "updated", summary.Updated, "failed", summary.Failed)
		}()
	}

	if cfg.Http.AccessToken == "" {
		slog.Warn("no access token configured, the http api is unauthenticated")
	}
	server := serviceutil.NewHttpServer(cfg.Http.Port, "seomonitor", app.Service.Handler(cfg.Http.AccessToken))
	serviceutil.ServeUntilDone(ctx, server)
}
