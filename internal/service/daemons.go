package service

import (
	"context"
	"seomonitor-backend/internal/components/chrono"
)

const (
	report_service_daemon          = "service.daemon"
	report_service_daemon_tracking = "service.daemon-tracking"
)

type DaemonConfig struct {
	// TrackingSpec is the cron spec the rankings of every active website are refreshed on.
	TrackingSpec string `json:"tracking_spec"`
	// ReportSpec is the cron spec due reports are generated and sent on.
	ReportSpec string `json:"report_spec"`
}

const (
	DefaultTrackingSpec = "0 6 * * *"
	DefaultReportSpec   = "0 8 * * *"
)

// RegisterDaemons schedules tracking and report generation on cron, jobs run with
// ctx so they stop when it is cancelled.
func (s Service) RegisterDaemons(ctx context.Context, cron chrono.CronAPI, config DaemonConfig) error {
	trackingSpec := config.TrackingSpec
	if trackingSpec == "" {
		trackingSpec = DefaultTrackingSpec
	}
	reportSpec := config.ReportSpec
	if reportSpec == "" {
		reportSpec = DefaultReportSpec
	}

	err := cron.Cron(trackingSpec, func() {
		summary, err := s.TrackAll(ctx)
		if err != nil {
			return
		}
		s.tel.ReportDebug(report_service_daemon_tracking, "updated", summary.Updated, "failed", summary.Failed)
	})
	if err != nil {
		return err
	}

	return cron.Cron(reportSpec, func() {
		outcomes, err := s.Scheduled(ctx)
		if err != nil {
			return
		}
		for _, outcome := range outcomes {
			if outcome.Error != "" {
				s.tel.ReportWarning(report_service_daemon, outcome.WebsiteID, outcome.Error)
			}
		}
	})
}
