package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mindcheck/internal/cache"
	"mindcheck/internal/model"
	"mindcheck/internal/report"
	"mindcheck/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	svc   *ReportService
	cache cache.SessionCache
	repo  *MockReportRepo
	bc    *MockBroadcaster
	store *MockStorage
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	sc, _ := testCache(t)
	renderer, err := report.NewRenderer()
	require.NoError(t, err)

	f := &reportFixture{
		cache: sc,
		repo:  new(MockReportRepo),
		bc:    new(MockBroadcaster),
		store: new(MockStorage),
	}
	f.svc = NewReportService(ReportDeps{
		Catalog:     testCatalog(t),
		Cache:       sc,
		Repo:        f.repo,
		Builder:     report.NewBuilder(scoring.NewEngine()),
		Renderer:    renderer,
		Storage:     f.store,
		Broadcaster: f.bc,
		PublicURL:   "http://localhost:8080/",
	})
	return f
}

func miniRecord(answers ...int) *model.CompletedRecord {
	s := model.NewSession("mini", len(answers), t0)
	for i, v := range answers {
		s.Answers[i] = model.Ordinal(v)
	}
	end := t0.Add(12 * time.Minute)
	s.CompletedAt = &end
	s.IsCompleted = true
	s.CurrentIndex = s.LastIndex()
	return model.NewCompletedRecord(s, "迷你量表")
}

func TestReportWithoutRecord(t *testing.T) {
	f := newReportFixture(t)
	_, err := f.svc.Report(context.Background(), "c1", "mini")
	assert.ErrorIs(t, err, ErrNoReport)
}

func TestReportGeneratesOnceAndArchives(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(3, 3, 4)))

	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*model.Report")).Return(nil).Once()
	f.bc.On("SendToClient", "c1", MsgAnalysisStep, mock.AnythingOfType("model.AnalysisStep")).Times(4)

	rep, err := f.svc.Report(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Regexp(t, `^PSY-20260301-[0-9A-Z]{6}$`, rep.ID)
	assert.Equal(t, "c1", rep.ClientID)
	assert.Equal(t, model.KindSymptom, rep.Kind)
	assert.Equal(t, "迷你量表报告", rep.Title)
	assert.Equal(t, 12, rep.DurationMinutes)
	require.NotNil(t, rep.Radar)
	assert.Len(t, rep.Radar.Axes, 2)

	again, err := f.svc.Report(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Same(t, rep, again)

	f.repo.AssertExpectations(t)
	f.bc.AssertExpectations(t)

	first := f.bc.Calls[0].Arguments.Get(2).(model.AnalysisStep)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, "正在分析测评数据...", first.Message)
	last := f.bc.Calls[3].Arguments.Get(2).(model.AnalysisStep)
	assert.True(t, last.Done)
}

func TestReportSurvivesCancelledRequestAndArchiveFailure(t *testing.T) {
	f := newReportFixture(t)
	require.NoError(t, f.cache.SaveCompleted(context.Background(), "c1", miniRecord(1, 1, 1)))

	f.repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("mongo down"))
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := f.svc.Report(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Equal(t, model.HealthGood, rep.Overall.HealthBand)

	saveCtx := f.repo.Calls[0].Arguments.Get(0).(context.Context)
	assert.NoError(t, saveCtx.Err())
}

func TestRecordPrefersCurrentReportOfSameType(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(1, 1, 1)))
	require.NoError(t, f.cache.SaveCurrentReport(ctx, "c1", miniRecord(5, 5, 5)))
	rec, err := f.svc.Record(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Equal(t, 5, *rec.Answers[0])

	other := miniRecord(2, 2)
	other.Type = "plain"
	require.NoError(t, f.cache.SaveCurrentReport(ctx, "c1", other))
	rec, err = f.svc.Record(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Equal(t, 1, *rec.Answers[0])
}

func TestRadarView(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)

	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(2, 3, 4)))
	view, err := f.svc.Radar(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Len(t, view.Chart.Axes, 2)
	assert.NotEmpty(t, view.Option)

	generic := miniRecord(1, 2)
	generic.Type = "plain"
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", generic))
	_, err = f.svc.Radar(ctx, "c1", "plain")
	assert.ErrorIs(t, err, ErrNoRadar)
}

func TestHTML(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(2, 3, 4)))

	body, err := f.svc.HTML(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Contains(t, string(body), "<h1>迷你量表报告</h1>")
}

func TestExport(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(2, 3, 4)))

	isExportName := mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "reports/c1/PSY-") && strings.HasSuffix(name, ".html")
	})
	f.store.On("Upload", mock.Anything, isExportName, mock.Anything, mock.AnythingOfType("int64"), "text/html; charset=utf-8").
		Return("http://cdn/reports/c1/x.html", nil).Once()

	res, err := f.svc.Export(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/reports/c1/x.html", res.URL)
	assert.NotEmpty(t, res.ReportID)
	f.store.AssertExpectations(t)
}

func TestExportUnavailable(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(2, 3, 4)))

	f.store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))

	_, err := f.svc.Export(ctx, "c1", "mini")
	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestShare(t *testing.T) {
	f := newReportFixture(t)
	info := f.svc.Share("mini")
	assert.Equal(t, "http://localhost:8080/report.html?type=mini", info.URL)
	assert.Equal(t, "我刚刚完成了心理健康测评，查看我的测评结果和建议！ http://localhost:8080/report.html?type=mini", info.Text)

	// unknown types share the default
	assert.Equal(t, "http://localhost:8080/report.html?type=mini", f.svc.Share("nope").URL)
}

func TestArchived(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	f.repo.On("GetByID", ctx, "PSY-1").Return(&model.Report{ID: "PSY-1", ClientID: "c1"}, nil)
	f.repo.On("GetByID", ctx, "PSY-2").Return(nil, nil)

	rep, err := f.svc.Archived(ctx, "c1", "PSY-1")
	require.NoError(t, err)
	assert.Equal(t, "PSY-1", rep.ID)

	_, err = f.svc.Archived(ctx, "c1", "PSY-2")
	assert.ErrorIs(t, err, ErrReportNotFound)

	// another client's report reads as missing
	_, err = f.svc.Archived(ctx, "c2", "PSY-1")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestForgetRegenerates(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(2, 3, 4)))

	first, err := f.svc.Report(ctx, "c1", "mini")
	require.NoError(t, err)
	f.svc.Forget(ctx, "c1", "mini")
	second, err := f.svc.Report(ctx, "c1", "mini")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	f.repo.AssertExpectations(t)
}

func TestForgetDeletesExport(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.bc.On("SendToClient", mock.Anything, mock.Anything, mock.Anything)
	require.NoError(t, f.cache.SaveCompleted(ctx, "c1", miniRecord(2, 3, 4)))

	var uploaded string
	f.store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.String(1) }).
		Return("http://cdn/x.html", nil).Once()
	_, err := f.svc.Export(ctx, "c1", "mini")
	require.NoError(t, err)

	f.store.On("Delete", mock.Anything, mock.MatchedBy(func(name string) bool { return name == uploaded })).
		Return(errors.New("gone")).Once()
	f.svc.Forget(ctx, "c1", "mini")
	f.store.AssertExpectations(t)

	// nothing left to delete the second time
	f.svc.Forget(ctx, "c1", "mini")
	f.store.AssertNumberOfCalls(t, "Delete", 1)
}
