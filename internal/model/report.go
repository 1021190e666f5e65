package model

import "time"

// Report is the typed report model rendered by the report package and
// archived in MongoDB
type Report struct {
	ID              string            `json:"id" bson:"_id"`
	ClientID        string            `json:"clientId" bson:"clientId"`
	Type            string            `json:"type" bson:"type"`
	Kind            Kind              `json:"kind" bson:"kind"`
	Title           string            `json:"title" bson:"title"`
	Subtitle        string            `json:"subtitle" bson:"subtitle"`
	CompletedAt     time.Time         `json:"completedAt" bson:"completedAt"`
	DurationMinutes int               `json:"durationMinutes" bson:"durationMinutes"`
	GeneratedAt     time.Time         `json:"generatedAt" bson:"generatedAt"`
	Overall         ReportOverall     `json:"overall" bson:"overall"`
	Dimensions      []ReportDimension `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Sections        []ReportSection   `json:"sections" bson:"sections"`
	Recommendations []Recommendation  `json:"recommendations" bson:"recommendations"`
	Risk            *ReportRisk       `json:"risk,omitempty" bson:"risk,omitempty"`
	Radar           *RadarChart       `json:"radar,omitempty" bson:"radar,omitempty"`
	Evaluation      *Evaluation       `json:"evaluation" bson:"evaluation"`
	Answers         []*int            `json:"answers" bson:"answers"`
}

// ReportOverall is the headline block with the gauge
type ReportOverall struct {
	Headline      string     `json:"headline" bson:"headline"`
	Rating        string     `json:"rating" bson:"rating"`
	Description   string     `json:"description" bson:"description"`
	HealthScore   float64    `json:"healthScore" bson:"healthScore"`
	HealthBand    HealthBand `json:"healthBand,omitempty" bson:"healthBand,omitempty"`
	GaugeAngle    float64    `json:"gaugeAngle" bson:"gaugeAngle"`
	PositiveItems int        `json:"positiveItems" bson:"positiveItems"`
	AverageScore  float64    `json:"averageScore" bson:"averageScore"`
	AnsweredCount int        `json:"answeredCount" bson:"answeredCount"`
}

// ReportDimension is one score card
type ReportDimension struct {
	Name            string  `json:"name" bson:"name"`
	Score           string  `json:"score" bson:"score"`
	Average         float64 `json:"average" bson:"average"`
	Level           Band    `json:"level" bson:"level"`
	LevelText       string  `json:"levelText" bson:"levelText"`
	Interpretation  string  `json:"interpretation" bson:"interpretation"`
	Description     string  `json:"description" bson:"description"`
	ProgressPercent float64 `json:"progressPercent" bson:"progressPercent"`
}

type ReportSection struct {
	Title   string `json:"title" bson:"title"`
	Icon    string `json:"icon" bson:"icon"`
	Content string `json:"content" bson:"content"`
}

type RiskIndicator struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

type ReportRisk struct {
	Level       RiskLevel       `json:"level" bson:"level"`
	Text        string          `json:"text" bson:"text"`
	Color       string          `json:"color" bson:"color"`
	Description string          `json:"description" bson:"description"`
	Indicators  []RiskIndicator `json:"indicators" bson:"indicators"`
}

// AnalysisStep is pushed to the client while a report is being prepared
type AnalysisStep struct {
	AssessmentType string `json:"type"`
	Step           int    `json:"step"`
	Total          int    `json:"total"`
	Message        string `json:"message"`
	Done           bool   `json:"done"`
}
