package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mindcheck/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionCache persists per-client assessment state. Every write is a full
// snapshot; a missing or unreadable key loads as nil.
type SessionCache interface {
	SaveProgress(ctx context.Context, clientID string, s *model.Session) error
	LoadProgress(ctx context.Context, clientID, assessmentType string) (*model.Session, error)
	DeleteProgress(ctx context.Context, clientID, assessmentType string) error

	SaveCompleted(ctx context.Context, clientID string, r *model.CompletedRecord) error
	LoadCompleted(ctx context.Context, clientID, assessmentType string) (*model.CompletedRecord, error)
	DeleteCompleted(ctx context.Context, clientID, assessmentType string) error

	SaveCurrentReport(ctx context.Context, clientID string, r *model.CompletedRecord) error
	LoadCurrentReport(ctx context.Context, clientID string) (*model.CompletedRecord, error)
	DeleteCurrentReport(ctx context.Context, clientID string) error

	SaveCurrentAssessment(ctx context.Context, clientID string, m *model.AssessmentMeta) error
	LoadCurrentAssessment(ctx context.Context, clientID string) (*model.AssessmentMeta, error)
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewSessionCache creates a session cache; ttl 0 keeps keys until deleted
func NewSessionCache(client *redis.Client, ttl time.Duration, log *zap.Logger) SessionCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func progressKey(clientID, assessmentType string) string {
	return fmt.Sprintf("client:%s:assessment_%s_progress", clientID, assessmentType)
}

func completedKey(clientID, assessmentType string) string {
	return fmt.Sprintf("client:%s:assessment_%s_completed", clientID, assessmentType)
}

func currentReportKey(clientID string) string {
	return fmt.Sprintf("client:%s:currentReport", clientID)
}

func currentAssessmentKey(clientID string) string {
	return fmt.Sprintf("client:%s:currentAssessment", clientID)
}

func (c *sessionCache) SaveProgress(ctx context.Context, clientID string, s *model.Session) error {
	return c.set(ctx, progressKey(clientID, s.AssessmentType), s)
}

func (c *sessionCache) LoadProgress(ctx context.Context, clientID, assessmentType string) (*model.Session, error) {
	var s model.Session
	ok, err := c.get(ctx, progressKey(clientID, assessmentType), &s)
	if !ok || err != nil {
		return nil, err
	}
	if len(s.Answers) == 0 {
		c.log.Warn("Ignoring empty progress snapshot", zap.String("client", clientID), zap.String("type", assessmentType))
		return nil, nil
	}
	return &s, nil
}

func (c *sessionCache) DeleteProgress(ctx context.Context, clientID, assessmentType string) error {
	return c.client.Del(ctx, progressKey(clientID, assessmentType)).Err()
}

func (c *sessionCache) SaveCompleted(ctx context.Context, clientID string, r *model.CompletedRecord) error {
	return c.set(ctx, completedKey(clientID, r.Type), r)
}

func (c *sessionCache) LoadCompleted(ctx context.Context, clientID, assessmentType string) (*model.CompletedRecord, error) {
	return c.getRecord(ctx, completedKey(clientID, assessmentType))
}

func (c *sessionCache) DeleteCompleted(ctx context.Context, clientID, assessmentType string) error {
	return c.client.Del(ctx, completedKey(clientID, assessmentType)).Err()
}

func (c *sessionCache) SaveCurrentReport(ctx context.Context, clientID string, r *model.CompletedRecord) error {
	return c.set(ctx, currentReportKey(clientID), r)
}

func (c *sessionCache) LoadCurrentReport(ctx context.Context, clientID string) (*model.CompletedRecord, error) {
	return c.getRecord(ctx, currentReportKey(clientID))
}

func (c *sessionCache) DeleteCurrentReport(ctx context.Context, clientID string) error {
	return c.client.Del(ctx, currentReportKey(clientID)).Err()
}

func (c *sessionCache) SaveCurrentAssessment(ctx context.Context, clientID string, m *model.AssessmentMeta) error {
	return c.set(ctx, currentAssessmentKey(clientID), m)
}

func (c *sessionCache) LoadCurrentAssessment(ctx context.Context, clientID string) (*model.AssessmentMeta, error) {
	var m model.AssessmentMeta
	ok, err := c.get(ctx, currentAssessmentKey(clientID), &m)
	if !ok || err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *sessionCache) getRecord(ctx context.Context, key string) (*model.CompletedRecord, error) {
	var r model.CompletedRecord
	ok, err := c.get(ctx, key, &r)
	if !ok || err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *sessionCache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// get decodes key into dst. A missing key and a corrupt value both report
// ok=false without error; corruption is logged.
func (c *sessionCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("Discarding unreadable snapshot", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}
