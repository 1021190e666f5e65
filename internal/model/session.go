package model

import (
	"math"
	"time"
)

// Screen is the flow position of a session
type Screen string

const (
	ScreenWelcome    Screen = "welcome"
	ScreenInProgress Screen = "in_progress"
	ScreenCompleted  Screen = "completed"
	ScreenReviewing  Screen = "reviewing"
)

// Session is one attempt at an assessment. A nil answer means unanswered.
type Session struct {
	AssessmentType string     `json:"type" bson:"type"`
	Answers        []*int     `json:"answers" bson:"answers"`
	CurrentIndex   int        `json:"currentQuestion" bson:"currentQuestion"`
	StartedAt      time.Time  `json:"startTime" bson:"startTime"`
	CompletedAt    *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
	IsCompleted    bool       `json:"isCompleted" bson:"isCompleted"`
}

// NewSession allocates a session with every answer absent
func NewSession(assessmentType string, questionCount int, now time.Time) *Session {
	return &Session{
		AssessmentType: assessmentType,
		Answers:        make([]*int, questionCount),
		StartedAt:      now,
	}
}

// Ordinal returns a pointer to v for use as an answer
func Ordinal(v int) *int {
	return &v
}

// LastIndex returns the index of the final question
func (s *Session) LastIndex() int {
	return len(s.Answers) - 1
}

// IsAnswered reports whether question i has an answer
func (s *Session) IsAnswered(i int) bool {
	return i >= 0 && i < len(s.Answers) && s.Answers[i] != nil
}

// AnsweredCount returns the number of answered questions
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

// DurationMinutes returns the elapsed time rounded to whole minutes
func (s *Session) DurationMinutes() int {
	if s.CompletedAt == nil {
		return 0
	}
	return int(math.Round(s.CompletedAt.Sub(s.StartedAt).Minutes()))
}

// Clone returns a deep copy so persisted snapshots never alias live state
func (s *Session) Clone() *Session {
	c := *s
	c.Answers = make([]*int, len(s.Answers))
	for i, a := range s.Answers {
		if a != nil {
			c.Answers[i] = Ordinal(*a)
		}
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// CompletedRecord is a sealed session as stored under the completed and
// currentReport keys
type CompletedRecord struct {
	Type        string    `json:"type" bson:"type"`
	Title       string    `json:"title" bson:"title"`
	Answers     []*int    `json:"answers" bson:"answers"`
	StartTime   time.Time `json:"startTime" bson:"startTime"`
	EndTime     time.Time `json:"endTime" bson:"endTime"`
	Duration    int       `json:"duration" bson:"duration"` // minutes
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}

// NewCompletedRecord seals s into a record. s must be completed.
func NewCompletedRecord(s *Session, title string) *CompletedRecord {
	c := s.Clone()
	end := c.StartedAt
	if c.CompletedAt != nil {
		end = *c.CompletedAt
	}
	return &CompletedRecord{
		Type:        c.AssessmentType,
		Title:       title,
		Answers:     c.Answers,
		StartTime:   c.StartedAt,
		EndTime:     end,
		Duration:    c.DurationMinutes(),
		CompletedAt: end,
	}
}

// Session rebuilds the sealed session the record was made from
func (r *CompletedRecord) Session() *Session {
	end := r.EndTime
	answers := make([]*int, len(r.Answers))
	copy(answers, r.Answers)
	return &Session{
		AssessmentType: r.Type,
		Answers:        answers,
		CurrentIndex:   len(answers) - 1,
		StartedAt:      r.StartTime,
		CompletedAt:    &end,
		IsCompleted:    true,
	}
}

// AssessmentMeta is recorded when the user confirms an assessment from
// the landing view
type AssessmentMeta struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
}

// ReviewItem is one read-only answer in the review screen
type ReviewItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Value *int   `json:"value"`
	Label string `json:"label"`
}
