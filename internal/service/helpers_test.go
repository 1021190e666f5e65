package service

import (
	"context"
	"io"
	"testing"
	"time"

	"mindcheck/internal/cache"
	"mindcheck/internal/catalog"
	"mindcheck/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// MockReportRepo is a mock type for the ReportRepo interface
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Save(ctx context.Context, r *model.Report) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportRepo) ListByClient(ctx context.Context, clientID string, limit int64) ([]*model.Report, error) {
	args := m.Called(ctx, clientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Report), args.Error(1)
}

// MockBroadcaster records pushed messages
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) SendToClient(clientID string, msgType string, payload interface{}) {
	m.Called(clientID, msgType, payload)
}

// MockStorage is a mock type for storage.Provider
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, name, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockStorage) URL(name string) string {
	return m.Called(name).String(0)
}

// mini is a three question symptom inventory with two dimensions
func mini() *model.Assessment {
	return &model.Assessment{
		Type:  "mini",
		Kind:  model.KindSymptom,
		Title: "迷你量表",
		Questions: []model.Question{
			{Index: 0, Text: "头痛"},
			{Index: 1, Text: "失眠"},
			{Index: 2, Text: "担心"},
		},
		Dimensions: []model.Dimension{
			{Name: "躯体化", Questions: []int{0, 1}},
			{Name: "焦虑", Questions: []int{2}},
		},
		AnswerOptions: []model.AnswerOption{
			{Value: 1, Label: "没有"},
			{Value: 2, Label: "很轻"},
			{Value: 3, Label: "中等"},
			{Value: 4, Label: "偏重"},
			{Value: 5, Label: "严重"},
		},
	}
}

func plain() *model.Assessment {
	return &model.Assessment{
		Type:  "plain",
		Kind:  model.KindGeneric,
		Title: "简易问卷",
		Questions: []model.Question{
			{Index: 0, Text: "心情"},
			{Index: 1, Text: "睡眠"},
		},
		AnswerOptions: []model.AnswerOption{
			{Value: 1, Label: "差"},
			{Value: 2, Label: "好"},
		},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("mini", mini(), plain())
	require.NoError(t, err)
	return c
}

func testCache(t *testing.T) (cache.SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.NewSessionCache(rdb, 0, nil), mr
}

func clock() func() time.Time {
	now := t0
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}
