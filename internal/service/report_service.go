package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mindcheck/internal/cache"
	"mindcheck/internal/catalog"
	"mindcheck/internal/metrics"
	"mindcheck/internal/model"
	"mindcheck/internal/radar"
	"mindcheck/internal/report"
	"mindcheck/internal/repository"
	"mindcheck/internal/storage"
	"mindcheck/internal/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrNoReport          = report.ErrNoRecord
	ErrReportNotFound    = errors.New("report not found")
	ErrNoRadar           = errors.New("report has no radar chart")
	ErrExportUnavailable = errors.New("报告导出不可用，请稍后重试")
)

// MsgAnalysisStep is the websocket message type of analysis progress
const MsgAnalysisStep = "analysis_step"

var analysisSteps = []string{
	"正在分析测评数据...",
	"正在生成心理健康评估...",
	"正在准备个性化建议...",
}

// RadarView is the chart geometry with a ready ECharts option
type RadarView struct {
	Chart  *model.RadarChart      `json:"chart"`
	Option map[string]interface{} `json:"option"`
}

// ShareInfo is the text offered for sharing; clients without a share API
// copy it by hand
type ShareInfo struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// ExportResult points at the uploaded print layout
type ExportResult struct {
	ReportID string `json:"reportId"`
	URL      string `json:"url"`
}

// ReportService turns completed sessions into reports
type ReportService struct {
	catalog     *catalog.Catalog
	cache       cache.SessionCache
	repo        repository.ReportRepo
	builder     *report.Builder
	renderer    *report.Renderer
	storage     storage.Provider
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	log         *zap.Logger
	publicURL   string

	mu        sync.Mutex
	stepDelay time.Duration
	generated map[string]*model.Report
	exported  map[string]string // object name of the last export per client/type
}

// ReportDeps groups what the report service talks to
type ReportDeps struct {
	Catalog     *catalog.Catalog
	Cache       cache.SessionCache
	Repo        repository.ReportRepo
	Builder     *report.Builder
	Renderer    *report.Renderer
	Storage     storage.Provider
	Broadcaster Broadcaster
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	PublicURL   string
	StepDelay   time.Duration
}

// NewReportService creates a new report service
func NewReportService(d ReportDeps) *ReportService {
	if d.Broadcaster == nil {
		d.Broadcaster = nopBroadcaster{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNop()
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &ReportService{
		catalog:     d.Catalog,
		cache:       d.Cache,
		repo:        d.Repo,
		builder:     d.Builder,
		renderer:    d.Renderer,
		storage:     d.Storage,
		broadcaster: d.Broadcaster,
		metrics:     d.Metrics,
		log:         d.Log,
		publicURL:   d.PublicURL,
		stepDelay:   d.StepDelay,
		generated:   make(map[string]*model.Report),
		exported:    make(map[string]string),
	}
}

// SetStepDelay changes the pause between analysis steps
func (s *ReportService) SetStepDelay(d time.Duration) {
	s.mu.Lock()
	s.stepDelay = d
	s.mu.Unlock()
}

// Record loads the completed record of t: currentReport when it belongs
// to t, else the per-type completed key
func (s *ReportService) Record(ctx context.Context, clientID, t string) (*model.CompletedRecord, error) {
	a := s.catalog.Get(t)
	cur, err := s.cache.LoadCurrentReport(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load current report: %w", err)
	}
	if cur != nil && cur.Type == a.Type {
		return cur, nil
	}
	rec, err := s.cache.LoadCompleted(ctx, clientID, a.Type)
	if err != nil {
		return nil, fmt.Errorf("load completed: %w", err)
	}
	if rec == nil {
		return nil, ErrNoReport
	}
	return rec, nil
}

// Report returns the report of the client's latest completed session of
// t, generating it on first request
func (s *ReportService) Report(ctx context.Context, clientID, t string) (*model.Report, error) {
	a := s.catalog.Get(t)
	rec, err := s.Record(ctx, clientID, a.Type)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cached := s.generated[liveKey(clientID, a.Type)]
	s.mu.Unlock()
	if cached != nil && cached.CompletedAt.Equal(rec.CompletedAt) {
		return cached, nil
	}
	return s.generate(ctx, clientID, a, rec)
}

// generate runs the analysis steps, builds the report and archives it.
// Once started it runs to the end even if the caller goes away.
func (s *ReportService) generate(ctx context.Context, clientID string, a *model.Assessment, rec *model.CompletedRecord) (*model.Report, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracing.Tracer().Start(ctx, "report.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("assessment.type", a.Type),
		attribute.String("assessment.kind", string(a.Kind)),
	)

	s.mu.Lock()
	delay := s.stepDelay
	s.mu.Unlock()

	for i, msg := range analysisSteps {
		s.broadcaster.SendToClient(clientID, MsgAnalysisStep, model.AnalysisStep{
			AssessmentType: a.Type,
			Step:           i + 1,
			Total:          len(analysisSteps),
			Message:        msg,
		})
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	rep, err := s.builder.Build(clientID, a, rec)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("report.id", rep.ID))

	if err := s.repo.Save(ctx, rep); err != nil {
		s.log.Warn("Failed to archive report",
			zap.String("report", rep.ID),
			zap.String("client", clientID),
			zap.Error(err),
		)
	}

	s.mu.Lock()
	s.generated[liveKey(clientID, a.Type)] = rep
	s.mu.Unlock()

	s.metrics.ReportsGenerated.WithLabelValues(a.Type, string(rep.Kind)).Inc()
	s.broadcaster.SendToClient(clientID, MsgAnalysisStep, model.AnalysisStep{
		AssessmentType: a.Type,
		Step:           len(analysisSteps),
		Total:          len(analysisSteps),
		Done:           true,
	})
	s.log.Info("Report generated",
		zap.String("report", rep.ID),
		zap.String("client", clientID),
		zap.String("type", a.Type),
	)
	return rep, nil
}

// Radar returns the radar geometry of the report
func (s *ReportService) Radar(ctx context.Context, clientID, t string) (*RadarView, error) {
	rep, err := s.Report(ctx, clientID, t)
	if err != nil {
		return nil, err
	}
	if rep.Radar == nil {
		return nil, ErrNoRadar
	}
	return &RadarView{Chart: rep.Radar, Option: radar.EChartsOption(rep.Radar, rep.Title)}, nil
}

// HTML renders the print layout
func (s *ReportService) HTML(ctx context.Context, clientID, t string) ([]byte, error) {
	rep, err := s.Report(ctx, clientID, t)
	if err != nil {
		return nil, err
	}
	return s.renderer.HTML(rep)
}

// Export uploads the print layout. Any storage failure aborts the export
// with ErrExportUnavailable.
func (s *ReportService) Export(ctx context.Context, clientID, t string) (*ExportResult, error) {
	rep, err := s.Report(ctx, clientID, t)
	if err != nil {
		return nil, err
	}
	body, err := s.renderer.HTML(rep)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrExportUnavailable
	}

	name := report.ExportName(rep)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(body), int64(len(body)), "text/html; charset=utf-8")
	if err != nil {
		s.log.Error("Report export failed", zap.String("report", rep.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExportUnavailable, err)
	}

	s.mu.Lock()
	s.exported[liveKey(clientID, rep.Type)] = name
	s.mu.Unlock()
	return &ExportResult{ReportID: rep.ID, URL: url}, nil
}

// Share returns the share text and link for t
func (s *ReportService) Share(t string) *ShareInfo {
	a := s.catalog.Get(t)
	url := report.ShareURL(s.publicURL, a.Type)
	return &ShareInfo{Text: report.ShareText(url), URL: url}
}

// Archived loads a previously generated report of the client by id.
// Reports of other clients read as not found.
func (s *ReportService) Archived(ctx context.Context, clientID, id string) (*model.Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil || rep.ClientID != clientID {
		return nil, ErrReportNotFound
	}
	return rep, nil
}

// History lists the client's archived reports, newest first
func (s *ReportService) History(ctx context.Context, clientID string, limit int64) ([]*model.Report, error) {
	return s.repo.ListByClient(ctx, clientID, limit)
}

// Forget drops the generated report of t and removes its exported copy
func (s *ReportService) Forget(ctx context.Context, clientID, t string) {
	a := s.catalog.Get(t)
	key := liveKey(clientID, a.Type)
	s.mu.Lock()
	delete(s.generated, key)
	name := s.exported[key]
	delete(s.exported, key)
	s.mu.Unlock()

	if name == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, name); err != nil {
		s.log.Warn("Failed to delete exported report",
			zap.String("object", name),
			zap.String("client", clientID),
			zap.Error(err),
		)
	}
}
