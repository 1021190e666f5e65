package flow

import (
	"errors"
	"fmt"
	"time"

	"mindcheck/internal/model"
)

var (
	ErrNotStarted       = errors.New("assessment has not been started")
	ErrAlreadyStarted   = errors.New("assessment is already in progress")
	ErrAlreadyCompleted = errors.New("assessment is already completed")
	ErrNotCompleted     = errors.New("assessment is not completed")
	ErrInvalidAnswer    = errors.New("answer is not one of the answer options")
	ErrNotAnswered      = errors.New("current question has no answer")
	ErrSnapshotMismatch = errors.New("saved session does not match the assessment")
)

// Controller drives one session through welcome, in progress, completed
// and reviewing. It is not safe for concurrent use.
type Controller struct {
	assessment *model.Assessment
	session    *model.Session
	screen     model.Screen
	now        func() time.Time
}

// New returns a controller on the welcome screen
func New(a *model.Assessment, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{assessment: a, screen: model.ScreenWelcome, now: now}
}

// Restore resumes a persisted session
func Restore(a *model.Assessment, s *model.Session, now func() time.Time) (*Controller, error) {
	if s == nil || len(s.Answers) != a.QuestionCount() {
		return nil, ErrSnapshotMismatch
	}
	if s.CurrentIndex < 0 || s.CurrentIndex > s.LastIndex() {
		return nil, fmt.Errorf("%w: current question %d", ErrSnapshotMismatch, s.CurrentIndex)
	}
	for _, v := range s.Answers {
		if v != nil && !a.ValidAnswer(*v) {
			return nil, fmt.Errorf("%w: answer %d", ErrSnapshotMismatch, *v)
		}
	}
	c := New(a, now)
	c.session = s
	c.screen = model.ScreenInProgress
	if s.IsCompleted {
		c.screen = model.ScreenCompleted
	}
	return c, nil
}

func (c *Controller) Screen() model.Screen { return c.screen }
func (c *Controller) Session() *model.Session { return c.session }
func (c *Controller) Assessment() *model.Assessment { return c.assessment }

// Clone returns an independent copy, so an operation can be tried and
// dropped if its result cannot be stored
func (c *Controller) Clone() *Controller {
	cp := *c
	if c.session != nil {
		cp.session = c.session.Clone()
	}
	return &cp
}

// Start allocates a fresh session with every answer absent
func (c *Controller) Start() (*model.Session, error) {
	if c.screen != model.ScreenWelcome {
		return nil, ErrAlreadyStarted
	}
	c.session = model.NewSession(c.assessment.Type, c.assessment.QuestionCount(), c.now())
	c.screen = model.ScreenInProgress
	return c.session, nil
}

// Answer records v for the current question and auto-advances. Answering
// the last question completes the session.
func (c *Controller) Answer(v int) error {
	if err := c.requireInProgress(); err != nil {
		return err
	}
	if !c.assessment.ValidAnswer(v) {
		return fmt.Errorf("%w: %d", ErrInvalidAnswer, v)
	}
	c.session.Answers[c.session.CurrentIndex] = model.Ordinal(v)
	return c.forward()
}

// Next moves forward without requiring an answer
func (c *Controller) Next() error {
	if err := c.requireInProgress(); err != nil {
		return err
	}
	return c.forward()
}

// Advance moves forward only when the current question is answered
func (c *Controller) Advance() error {
	if err := c.requireInProgress(); err != nil {
		return err
	}
	if !c.session.IsAnswered(c.session.CurrentIndex) {
		return ErrNotAnswered
	}
	return c.forward()
}

// Previous steps back; a no-op on the first question
func (c *Controller) Previous() error {
	if err := c.requireInProgress(); err != nil {
		return err
	}
	if c.session.CurrentIndex > 0 {
		c.session.CurrentIndex--
	}
	return nil
}

// ClearCurrent removes the answer of the current question
func (c *Controller) ClearCurrent() error {
	if err := c.requireInProgress(); err != nil {
		return err
	}
	c.session.Answers[c.session.CurrentIndex] = nil
	return nil
}

// Complete seals the session
func (c *Controller) Complete() error {
	if err := c.requireInProgress(); err != nil {
		return err
	}
	now := c.now()
	c.session.IsCompleted = true
	c.session.CompletedAt = &now
	c.screen = model.ScreenCompleted
	return nil
}

// Review replays the sealed answers read-only
func (c *Controller) Review() ([]model.ReviewItem, error) {
	if c.screen != model.ScreenCompleted && c.screen != model.ScreenReviewing {
		return nil, ErrNotCompleted
	}
	c.screen = model.ScreenReviewing

	items := make([]model.ReviewItem, len(c.assessment.Questions))
	for i, q := range c.assessment.Questions {
		item := model.ReviewItem{Index: i, Text: q.Text}
		if c.session.IsAnswered(i) {
			v := *c.session.Answers[i]
			item.Value = model.Ordinal(v)
			item.Label = c.optionLabel(v)
		}
		items[i] = item
	}
	return items, nil
}

func (c *Controller) forward() error {
	if c.session.CurrentIndex >= c.session.LastIndex() {
		return c.Complete()
	}
	c.session.CurrentIndex++
	return nil
}

func (c *Controller) requireInProgress() error {
	switch c.screen {
	case model.ScreenWelcome:
		return ErrNotStarted
	case model.ScreenCompleted, model.ScreenReviewing:
		return ErrAlreadyCompleted
	}
	return nil
}

func (c *Controller) optionLabel(v int) string {
	for _, o := range c.assessment.AnswerOptions {
		if o.Value == v {
			return o.Label
		}
	}
	return ""
}
