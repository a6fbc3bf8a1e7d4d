package report

import (
	"context"
	"fmt"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/chrono"
	"seomonitor-backend/internal/components/mail"
	"seomonitor-backend/internal/components/telemetry"
	"seomonitor-backend/internal/model"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_dispatcher_dispatch = "dispatcher.dispatch"
	report_dispatcher_prepare  = "dispatcher.prepare"
)

type DispatchConfig struct {
	// DefaultRecipient receives reports of websites without a notification email.
	DefaultRecipient  string `json:"default_recipient"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
	HistoryWindowDays int    `json:"history_window_days"`
}

type DispatchResult struct {
	ReportID  int64     `json:"report_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	SentAt    time.Time `json:"sent_at"`
}

type Dispatcher struct {
	repo             Repository
	mailer           mail.Mailer
	time             chrono.TimeAPI
	tel              telemetry.API
	defaultRecipient string
	timeout          time.Duration
	window           time.Duration
}

func NewDispatcher(repo Repository, mailer mail.Mailer, config DispatchConfig, clock chrono.TimeAPI, tel telemetry.API) Dispatcher {
	assert.NotNil(repo)
	assert.NotNil(mailer)
	assert.NotNil(clock)
	assert.NotNil(tel)

	timeout := 30 * time.Second
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}
	window := DefaultWindow
	if config.HistoryWindowDays > 0 {
		window = time.Duration(config.HistoryWindowDays) * 24 * time.Hour
	}
	return Dispatcher{
		repo:             repo,
		mailer:           mailer,
		time:             clock,
		tel:              telemetry.NewScopedAPI("report", tel),
		defaultRecipient: strings.TrimSpace(config.DefaultRecipient),
		timeout:          timeout,
		window:           window,
	}
}

// Recipient is where reports of website go.
func (d Dispatcher) Recipient(website model.Website) string {
	if email := strings.TrimSpace(website.NotificationEmail); email != "" {
		return email
	}
	return d.defaultRecipient
}

// Prepare gathers the current rankings, competitors and trend history of a website
// and renders them together with report.
func (d Dispatcher) Prepare(ctx context.Context, website model.Website, report model.Report) (Document, error) {
	keywords, err := d.repo.ListKeywords(ctx, website.ID)
	if err != nil {
		return Document{}, err
	}
	competitors, err := d.repo.ListCompetitors(ctx, website.ID)
	if err != nil {
		return Document{}, err
	}
	competitorKeywords, err := d.repo.ListCompetitorKeywords(ctx, website.ID)
	if err != nil {
		return Document{}, err
	}

	now := d.time.Now()
	from := now.Add(-d.window)
	history := make(map[model.EntityRef][]model.HistoryPoint, len(keywords)+len(competitorKeywords))
	refs := make([]model.EntityRef, 0, len(keywords)+len(competitorKeywords))
	for _, k := range keywords {
		refs = append(refs, k.Ref())
	}
	for _, ck := range competitorKeywords {
		refs = append(refs, ck.Ref())
	}
	for _, ref := range refs {
		points, err := d.repo.History(ctx, ref, from, now)
		if err != nil {
			// a report without a trend summary is still worth sending
			d.tel.ReportWarning(report_dispatcher_prepare, ref.String(), err)
			continue
		}
		history[ref] = points
	}

	return Render(Input{
		Website:            website,
		Report:             report,
		Keywords:           keywords,
		Competitors:        competitors,
		CompetitorKeywords: competitorKeywords,
		History:            history,
		Window:             d.window,
	})
}

// Dispatch makes a single attempt at mailing doc to recipient.
func (d Dispatcher) Dispatch(ctx context.Context, doc Document, recipient string) (DispatchResult, error) {
	ctx, span := tracer.Start(ctx, "Dispatch")
	defer span.End()

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		err := apperr.Invalid("recipient", "no notification email or default recipient configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, "no recipient")
		return DispatchResult{}, err
	}
	span.SetAttributes(attribute.String("recipient", recipient))

	msg := mail.Message{
		To:      recipient,
		Subject: doc.Subject,
		HTML:    doc.HTML,
		Text:    doc.Text,
	}
	if len(doc.Workbook) > 0 {
		msg.Attachments = append(msg.Attachments, mail.Attachment{
			Filename:    fmt.Sprintf("seo-report-%s.xlsx", d.time.Now().Format("20060102")),
			ContentType: XLSXContentType,
			Data:        doc.Workbook,
		})
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.mailer.Send(sendCtx, msg)
	if err != nil {
		err = apperr.Delivery(recipient, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send report")
		d.tel.ReportWarning(report_dispatcher_dispatch, recipient, err)
		return DispatchResult{}, err
	}

	return DispatchResult{
		Recipient: recipient,
		Subject:   doc.Subject,
		SentAt:    d.time.Now(),
	}, nil
}

// SendReport renders report and mails it to the website's recipient.
func (d Dispatcher) SendReport(ctx context.Context, website model.Website, report model.Report) (DispatchResult, error) {
	doc, err := d.Prepare(ctx, website, report)
	if err != nil {
		return DispatchResult{}, err
	}
	result, err := d.Dispatch(ctx, doc, d.Recipient(website))
	if err != nil {
		return DispatchResult{}, err
	}
	result.ReportID = report.ID
	return result, nil
}

// SendLatest mails the latest report of a website, a website without any report is
// NotFound and nothing is sent.
func (d Dispatcher) SendLatest(ctx context.Context, websiteID int64) (DispatchResult, error) {
	ctx, span := tracer.Start(ctx, "SendLatest")
	defer span.End()
	span.SetAttributes(attribute.Int64("website_id", websiteID))

	website, err := d.repo.GetWebsite(ctx, websiteID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get website")
		return DispatchResult{}, err
	}
	report, err := d.repo.LatestReport(ctx, websiteID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get latest report")
		return DispatchResult{}, err
	}
	return d.SendReport(ctx, website, report)
}

// Deliver adapts SendReport for Aggregator.GenerateDue.
func (d Dispatcher) Deliver(ctx context.Context, website model.Website, report model.Report) error {
	_, err := d.SendReport(ctx, website, report)
	return err
}
