package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mindcheck/internal/cache"
	"mindcheck/internal/catalog"
	"mindcheck/internal/flow"
	"mindcheck/internal/metrics"
	"mindcheck/internal/model"

	"go.uber.org/zap"
)

var (
	ErrNotOpened          = errors.New("assessment has not been opened")
	ErrDecisionRequired   = errors.New("a saved session is waiting for a decision")
	ErrNoPendingDecision  = errors.New("no decision is pending")
	ErrInvalidChoice      = errors.New("choice does not match the pending prompt")
	ErrNothingToSave      = errors.New("no session in progress")
	ErrNoCompletedSession = errors.New("no completed session")
)

// PromptKind tells which confirmation gate an opened assessment hit
type PromptKind string

const (
	PromptResume    PromptKind = "resume"    // saved progress: resume or discard
	PromptCompleted PromptKind = "completed" // finished before: retake or view
)

type Choice string

const (
	ChoiceResume  Choice = "resume"
	ChoiceDiscard Choice = "discard"
	ChoiceRetake  Choice = "retake"
	ChoiceView    Choice = "view"
)

// Prompt is the question the client must answer before continuing
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Message string     `json:"message"`
	Choices []Choice   `json:"choices"`
}

// SessionState is what the client renders for one assessment
type SessionState struct {
	Type       string              `json:"type"`
	Title      string              `json:"title"`
	Screen     model.Screen        `json:"screen"`
	Prompt     *Prompt             `json:"prompt,omitempty"`
	Session    *model.Session      `json:"session,omitempty"`
	Question   *model.QuestionView `json:"question,omitempty"`
	Answered   int                 `json:"answered"`
	Total      int                 `json:"total"`
	ReportPath string              `json:"reportPath,omitempty"`

	// Confirmed is set when this assessment was picked on the landing view
	Confirmed *model.AssessmentMeta `json:"confirmed,omitempty"`
}

// liveSession is one client's view of one assessment. mu serializes that
// client's operations.
type liveSession struct {
	mu      sync.Mutex
	ctrl    *flow.Controller
	prompt  *Prompt
	touched time.Time
}

// AssessmentService drives assessment sessions for anonymous clients and
// persists every change as a full snapshot
type AssessmentService struct {
	catalog *catalog.Catalog
	cache   cache.SessionCache
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time

	mu   sync.Mutex
	live map[string]*liveSession
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(c *catalog.Catalog, sc cache.SessionCache, m *metrics.Metrics, log *zap.Logger) *AssessmentService {
	if m == nil {
		m = metrics.NewNop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AssessmentService{
		catalog: c,
		cache:   sc,
		metrics: m,
		log:     log,
		now:     time.Now,
		live:    make(map[string]*liveSession),
	}
}

func liveKey(clientID, assessmentType string) string {
	return clientID + "/" + assessmentType
}

// List returns the landing view cards
func (s *AssessmentService) List() []model.AssessmentSummary {
	return s.catalog.List()
}

// Assessment returns the definition for t, falling back to the default
func (s *AssessmentService) Assessment(t string) *model.Assessment {
	return s.catalog.Get(t)
}

// Question returns one question with its dimension label
func (s *AssessmentService) Question(t string, index int) (*model.QuestionView, error) {
	return s.catalog.Question(t, index)
}

// Confirm records the assessment picked on the landing view
func (s *AssessmentService) Confirm(ctx context.Context, clientID, t string) (*model.AssessmentMeta, error) {
	a := s.catalog.Get(t)
	meta := &model.AssessmentMeta{Type: a.Type, Title: a.Title, StartTime: s.now()}
	if err := s.cache.SaveCurrentAssessment(ctx, clientID, meta); err != nil {
		return nil, fmt.Errorf("save current assessment: %w", err)
	}
	return meta, nil
}

// Open loads what the client has saved for t. Saved progress yields a
// resume prompt, a completed record a retake prompt, otherwise the
// welcome screen.
func (s *AssessmentService) Open(ctx context.Context, clientID, t string) (*SessionState, error) {
	a := s.catalog.Get(t)

	progress, err := s.loadRestorable(ctx, clientID, a)
	if err != nil {
		return nil, err
	}
	meta, err := s.cache.LoadCurrentAssessment(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load current assessment: %w", err)
	}

	entry := &liveSession{touched: s.now()}
	switch {
	case progress != nil:
		entry.prompt = resumePrompt(a)
	default:
		completed, err := s.cache.LoadCompleted(ctx, clientID, a.Type)
		if err != nil {
			return nil, fmt.Errorf("load completed: %w", err)
		}
		if completed != nil {
			entry.prompt = completedPrompt(a)
		} else {
			entry.ctrl = flow.New(a, s.now)
		}
	}

	s.mu.Lock()
	s.live[liveKey(clientID, a.Type)] = entry
	s.metrics.LiveSessions.Set(float64(len(s.live)))
	s.mu.Unlock()

	st := s.state(a, entry)
	if meta != nil && meta.Type == a.Type {
		st.Confirmed = meta
	}
	return st, nil
}

// Decide answers the pending prompt of an opened assessment
func (s *AssessmentService) Decide(ctx context.Context, clientID, t string, choice Choice) (*SessionState, error) {
	a := s.catalog.Get(t)
	entry := s.entry(clientID, a.Type)
	if entry == nil {
		return nil, ErrNoPendingDecision
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.prompt == nil {
		return nil, ErrNoPendingDecision
	}

	switch {
	case entry.prompt.Kind == PromptResume && choice == ChoiceResume:
		progress, err := s.loadRestorable(ctx, clientID, a)
		if err != nil {
			return nil, err
		}
		entry.ctrl = flow.New(a, s.now)
		if progress != nil {
			ctrl, err := flow.Restore(a, progress, s.now)
			if err != nil {
				return nil, err
			}
			entry.ctrl = ctrl
		}

	case entry.prompt.Kind == PromptResume && choice == ChoiceDiscard:
		if err := s.cache.DeleteProgress(ctx, clientID, a.Type); err != nil {
			return nil, fmt.Errorf("discard progress: %w", err)
		}
		entry.ctrl = flow.New(a, s.now)

	case entry.prompt.Kind == PromptCompleted && choice == ChoiceRetake:
		if err := s.clearCompleted(ctx, clientID, a.Type); err != nil {
			return nil, err
		}
		entry.ctrl = flow.New(a, s.now)

	case entry.prompt.Kind == PromptCompleted && choice == ChoiceView:
		entry.ctrl = nil

	default:
		return nil, fmt.Errorf("%w: %q for %s prompt", ErrInvalidChoice, choice, entry.prompt.Kind)
	}

	entry.prompt = nil
	entry.touched = s.now()
	return s.state(a, entry), nil
}

// State returns the current state without changing it
func (s *AssessmentService) State(ctx context.Context, clientID, t string) (*SessionState, error) {
	a := s.catalog.Get(t)
	entry := s.entry(clientID, a.Type)
	if entry == nil {
		return nil, ErrNotOpened
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.state(a, entry), nil
}

func (s *AssessmentService) Start(ctx context.Context, clientID, t string) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, false, func(c *flow.Controller) error {
		_, err := c.Start()
		return err
	})
}

func (s *AssessmentService) Answer(ctx context.Context, clientID, t string, value int) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, true, func(c *flow.Controller) error {
		return c.Answer(value)
	})
}

func (s *AssessmentService) Next(ctx context.Context, clientID, t string) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, true, (*flow.Controller).Next)
}

func (s *AssessmentService) Advance(ctx context.Context, clientID, t string) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, true, (*flow.Controller).Advance)
}

func (s *AssessmentService) Previous(ctx context.Context, clientID, t string) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, true, (*flow.Controller).Previous)
}

func (s *AssessmentService) Clear(ctx context.Context, clientID, t string) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, true, (*flow.Controller).ClearCurrent)
}

func (s *AssessmentService) Complete(ctx context.Context, clientID, t string) (*SessionState, error) {
	return s.mutate(ctx, clientID, t, true, (*flow.Controller).Complete)
}

// Save writes the in-progress snapshot on request
func (s *AssessmentService) Save(ctx context.Context, clientID, t string) (*SessionState, error) {
	a := s.catalog.Get(t)
	entry := s.entry(clientID, a.Type)
	if entry == nil {
		return nil, ErrNotOpened
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.ctrl == nil || entry.ctrl.Screen() != model.ScreenInProgress {
		return nil, ErrNothingToSave
	}
	if err := s.saveProgress(ctx, clientID, entry.ctrl.Session(), "manual"); err != nil {
		return nil, err
	}
	entry.touched = s.now()
	return s.state(a, entry), nil
}

// Review replays the completed answers. Without a live completed session
// the stored completed record is used.
func (s *AssessmentService) Review(ctx context.Context, clientID, t string) ([]model.ReviewItem, error) {
	a := s.catalog.Get(t)

	entry := s.entry(clientID, a.Type)
	if entry == nil {
		ctrl, err := s.restoreCompleted(ctx, clientID, a)
		if err != nil {
			return nil, err
		}
		entry = s.entryOrInsert(clientID, a.Type, &liveSession{ctrl: ctrl})
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.prompt != nil && entry.prompt.Kind == PromptResume {
		return nil, ErrDecisionRequired
	}
	if entry.ctrl == nil || !isSealed(entry.ctrl.Screen()) {
		ctrl, err := s.restoreCompleted(ctx, clientID, a)
		if err != nil {
			return nil, err
		}
		entry.ctrl = ctrl
		entry.prompt = nil
	}
	entry.touched = s.now()
	return entry.ctrl.Review()
}

func (s *AssessmentService) restoreCompleted(ctx context.Context, clientID string, a *model.Assessment) (*flow.Controller, error) {
	rec, err := s.cache.LoadCompleted(ctx, clientID, a.Type)
	if err != nil {
		return nil, fmt.Errorf("load completed: %w", err)
	}
	if rec == nil {
		return nil, ErrNoCompletedSession
	}
	return flow.Restore(a, rec.Session(), s.now)
}

// FlushInProgress saves every live session that is in progress and has at
// least one answer, then forgets sessions idle for longer than idle
func (s *AssessmentService) FlushInProgress(ctx context.Context, idle time.Duration) (int, error) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.live))
	entries := make([]*liveSession, 0, len(s.live))
	for k, e := range s.live {
		keys = append(keys, k)
		entries = append(entries, e)
	}
	s.mu.Unlock()

	saved := 0
	var errs []error
	cutoff := s.now().Add(-idle)
	var stale []string
	for i, e := range entries {
		e.mu.Lock()
		unsaved := false
		if e.ctrl != nil && e.ctrl.Screen() == model.ScreenInProgress && e.ctrl.Session().AnsweredCount() > 0 {
			clientID := clientOf(keys[i], e.ctrl.Session().AssessmentType)
			if err := s.saveProgress(ctx, clientID, e.ctrl.Session(), "autosave"); err != nil {
				errs = append(errs, err)
				unsaved = true
			} else {
				saved++
			}
		}
		// answers that failed to save stay in memory for the next sweep
		if idle > 0 && e.touched.Before(cutoff) && !unsaved {
			stale = append(stale, keys[i])
		}
		e.mu.Unlock()
	}

	if len(stale) > 0 {
		s.mu.Lock()
		for _, k := range stale {
			delete(s.live, k)
		}
		s.metrics.LiveSessions.Set(float64(len(s.live)))
		s.mu.Unlock()
	}
	return saved, errors.Join(errs...)
}

func (s *AssessmentService) entry(clientID, assessmentType string) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[liveKey(clientID, assessmentType)]
}

// entryOrInsert returns the live entry of the client and type, installing
// fresh when there is none
func (s *AssessmentService) entryOrInsert(clientID, assessmentType string, fresh *liveSession) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := liveKey(clientID, assessmentType)
	if e, ok := s.live[key]; ok {
		return e
	}
	s.live[key] = fresh
	s.metrics.LiveSessions.Set(float64(len(s.live)))
	return fresh
}

// mutate applies op to the live controller and persists the result
func (s *AssessmentService) mutate(ctx context.Context, clientID, t string, persist bool, op func(*flow.Controller) error) (*SessionState, error) {
	a := s.catalog.Get(t)
	entry := s.entry(clientID, a.Type)
	if entry == nil {
		return nil, ErrNotOpened
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.prompt != nil {
		return nil, ErrDecisionRequired
	}
	if entry.ctrl == nil {
		return nil, ErrNotOpened
	}

	// the live controller only moves once the result is stored
	wasSealed := isSealed(entry.ctrl.Screen())
	next := entry.ctrl.Clone()
	if err := op(next); err != nil {
		return nil, err
	}

	session := next.Session()
	switch {
	case session == nil:
	case session.IsCompleted && !wasSealed:
		if err := s.finalize(ctx, clientID, a, session); err != nil {
			return nil, err
		}
	case !session.IsCompleted && persist:
		if err := s.saveProgress(ctx, clientID, session, "mutation"); err != nil {
			return nil, err
		}
	}
	entry.ctrl = next
	entry.touched = s.now()
	return s.state(a, entry), nil
}

// finalize stores the completed record, points currentReport at it and
// drops the progress snapshot
func (s *AssessmentService) finalize(ctx context.Context, clientID string, a *model.Assessment, session *model.Session) error {
	rec := model.NewCompletedRecord(session, a.Title)
	if err := s.cache.SaveCompleted(ctx, clientID, rec); err != nil {
		return fmt.Errorf("save completed: %w", err)
	}
	if err := s.cache.SaveCurrentReport(ctx, clientID, rec); err != nil {
		return fmt.Errorf("save current report: %w", err)
	}
	if err := s.cache.DeleteProgress(ctx, clientID, a.Type); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	s.log.Info("Assessment completed",
		zap.String("client", clientID),
		zap.String("type", a.Type),
		zap.Int("answered", session.AnsweredCount()),
		zap.Int("duration_minutes", rec.Duration),
	)
	return nil
}

// clearCompleted removes the completed record of a type and the current
// report when it belongs to that type
func (s *AssessmentService) clearCompleted(ctx context.Context, clientID, assessmentType string) error {
	if err := s.cache.DeleteCompleted(ctx, clientID, assessmentType); err != nil {
		return fmt.Errorf("delete completed: %w", err)
	}
	cur, err := s.cache.LoadCurrentReport(ctx, clientID)
	if err != nil {
		return fmt.Errorf("load current report: %w", err)
	}
	if cur != nil && cur.Type == assessmentType {
		if err := s.cache.DeleteCurrentReport(ctx, clientID); err != nil {
			return fmt.Errorf("delete current report: %w", err)
		}
	}
	return nil
}

// Retake clears the stored result of t so the next open starts fresh
func (s *AssessmentService) Retake(ctx context.Context, clientID, t string) error {
	a := s.catalog.Get(t)
	if err := s.clearCompleted(ctx, clientID, a.Type); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.live, liveKey(clientID, a.Type))
	s.metrics.LiveSessions.Set(float64(len(s.live)))
	s.mu.Unlock()
	return nil
}

func (s *AssessmentService) saveProgress(ctx context.Context, clientID string, session *model.Session, trigger string) error {
	if err := s.cache.SaveProgress(ctx, clientID, session.Clone()); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	s.metrics.SessionsSaved.WithLabelValues(trigger).Inc()
	return nil
}

// loadRestorable returns saved progress that still fits the assessment.
// Snapshots that do not are logged and treated as nothing saved.
func (s *AssessmentService) loadRestorable(ctx context.Context, clientID string, a *model.Assessment) (*model.Session, error) {
	progress, err := s.cache.LoadProgress(ctx, clientID, a.Type)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if progress == nil {
		return nil, nil
	}
	if _, err := flow.Restore(a, progress, s.now); err != nil {
		s.log.Warn("Ignoring saved progress",
			zap.String("client", clientID),
			zap.String("type", a.Type),
			zap.Error(err),
		)
		return nil, nil
	}
	return progress, nil
}

func (s *AssessmentService) state(a *model.Assessment, e *liveSession) *SessionState {
	st := &SessionState{
		Type:   a.Type,
		Title:  a.Title,
		Screen: model.ScreenWelcome,
		Prompt: e.prompt,
		Total:  a.QuestionCount(),
	}
	if e.ctrl == nil {
		if e.prompt == nil {
			st.Screen = model.ScreenCompleted
			st.ReportPath = reportPath(a.Type)
		}
		return st
	}

	st.Screen = e.ctrl.Screen()
	if session := e.ctrl.Session(); session != nil {
		st.Session = session.Clone()
		st.Answered = session.AnsweredCount()
		if st.Screen == model.ScreenInProgress {
			if q, err := s.catalog.Question(a.Type, session.CurrentIndex); err == nil {
				st.Question = q
			}
		}
	}
	if isSealed(st.Screen) {
		st.ReportPath = reportPath(a.Type)
	}
	return st
}

func resumePrompt(a *model.Assessment) *Prompt {
	return &Prompt{
		Kind:    PromptResume,
		Message: fmt.Sprintf("检测到您有未完成的%s，是否继续？", a.Title),
		Choices: []Choice{ChoiceResume, ChoiceDiscard},
	}
}

func completedPrompt(a *model.Assessment) *Prompt {
	return &Prompt{
		Kind:    PromptCompleted,
		Message: fmt.Sprintf("您已完成%s，是否重新测评？", a.Title),
		Choices: []Choice{ChoiceRetake, ChoiceView},
	}
}

func isSealed(sc model.Screen) bool {
	return sc == model.ScreenCompleted || sc == model.ScreenReviewing
}

func reportPath(assessmentType string) string {
	return "/v1/reports/" + assessmentType
}

func clientOf(key, assessmentType string) string {
	return key[:len(key)-len(assessmentType)-1]
}
