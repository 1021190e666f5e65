package model

// Kind selects the scoring strategy of an assessment
type Kind string

const (
	KindSymptom  Kind = "symptom"  // dimensional symptom inventory (SCL-90)
	KindTypology Kind = "typology" // four-axis type indicator
	KindGeneric  Kind = "generic"  // plain average
)

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	switch k {
	case KindSymptom, KindTypology, KindGeneric:
		return true
	}
	return false
}

// Question is one questionnaire item
type Question struct {
	Index int    `json:"index" bson:"index"`
	Text  string `json:"text" bson:"text"`
}

// Dimension groups question indices (0-based) into a named cluster
type Dimension struct {
	Name        string `json:"name" bson:"name"`
	Questions   []int  `json:"questions" bson:"questions"`
	Description string `json:"description" bson:"description"`
}

// Contains reports whether the 0-based question index is a member
func (d Dimension) Contains(index int) bool {
	for _, q := range d.Questions {
		if q == index {
			return true
		}
	}
	return false
}

// AnswerOption is one point on the ordinal answer scale
type AnswerOption struct {
	Value       int    `json:"value" bson:"value"`
	Label       string `json:"label" bson:"label"`
	Description string `json:"description" bson:"description"`
}

// Assessment is a complete questionnaire definition
type Assessment struct {
	Type          string         `json:"type" bson:"type"`
	Kind          Kind           `json:"kind" bson:"kind"`
	Title         string         `json:"title" bson:"title"`
	Description   string         `json:"description" bson:"description"`
	EstimatedTime string         `json:"estimatedTime" bson:"estimatedTime"`
	Icon          string         `json:"icon" bson:"icon"`
	Questions     []Question     `json:"questions" bson:"questions"`
	Dimensions    []Dimension    `json:"dimensions" bson:"dimensions"` // catalog order is significant
	AnswerOptions []AnswerOption `json:"answerOptions" bson:"answerOptions"`
}

// QuestionCount returns the number of questions
func (a *Assessment) QuestionCount() int {
	return len(a.Questions)
}

// ValidAnswer reports whether v is one of the answer option values
func (a *Assessment) ValidAnswer(v int) bool {
	for _, opt := range a.AnswerOptions {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// MaxAnswerValue returns the highest ordinal value, 0 without options
func (a *Assessment) MaxAnswerValue() int {
	max := 0
	for _, opt := range a.AnswerOptions {
		if opt.Value > max {
			max = opt.Value
		}
	}
	return max
}

// Summary returns the landing-view card for the assessment
func (a *Assessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		Type:          a.Type,
		Kind:          a.Kind,
		Title:         a.Title,
		Description:   a.Description,
		EstimatedTime: a.EstimatedTime,
		Icon:          a.Icon,
		QuestionCount: len(a.Questions),
	}
}

// AssessmentSummary is the catalog listing entry
type AssessmentSummary struct {
	Type          string `json:"type"`
	Kind          Kind   `json:"kind"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimatedTime"`
	Icon          string `json:"icon"`
	QuestionCount int    `json:"questionCount"`
}

// QuestionView is a single question as presented to the client
type QuestionView struct {
	Question
	Dimension string `json:"dimension"`
	Total     int    `json:"total"`
}
