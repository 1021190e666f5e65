package scoring

import (
	"errors"
	"fmt"

	"mindcheck/internal/model"
)

var ErrSessionNotSealed = errors.New("session is not completed")

// Strategy scores a sealed session of one assessment kind
type Strategy interface {
	Kind() model.Kind
	Score(a *model.Assessment, s *model.Session) *model.Evaluation
}

// Engine dispatches scoring to the strategy of the assessment kind. It is
// stateless and safe for concurrent use.
type Engine struct {
	strategies map[model.Kind]Strategy
	fallback   Strategy
}

// NewEngine creates an engine with the symptom, typology and generic
// strategies registered
func NewEngine() *Engine {
	e := &Engine{strategies: make(map[model.Kind]Strategy)}
	generic := GenericStrategy{}
	for _, s := range []Strategy{SymptomStrategy{}, TypologyStrategy{}, generic} {
		e.strategies[s.Kind()] = s
	}
	e.fallback = generic
	return e
}

// Evaluate scores a sealed session
func (e *Engine) Evaluate(a *model.Assessment, s *model.Session) (*model.Evaluation, error) {
	if s == nil || !s.IsCompleted {
		return nil, ErrSessionNotSealed
	}
	strategy, ok := e.strategies[a.Kind]
	if !ok {
		strategy = e.fallback
	}
	ev := strategy.Score(a, s)
	if ev == nil {
		return nil, fmt.Errorf("strategy %s produced no result", strategy.Kind())
	}
	return ev, nil
}

// answerAt returns the answer at index i and whether it is present.
// Indices outside the session count as unanswered.
func answerAt(s *model.Session, i int) (int, bool) {
	if i < 0 || i >= len(s.Answers) || s.Answers[i] == nil {
		return 0, false
	}
	return *s.Answers[i], true
}

// tally sums every answered question of the session
func tally(s *model.Session) (sum, answered, positive int) {
	for _, a := range s.Answers {
		if a == nil {
			continue
		}
		sum += *a
		answered++
		if *a >= PositiveThreshold {
			positive++
		}
	}
	return sum, answered, positive
}
