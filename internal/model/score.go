package model

// Band is the three-level severity classification of an average
type Band string

const (
	BandNormal  Band = "normal"
	BandMild    Band = "mild"
	BandConcern Band = "concern"
)

// HealthBand classifies the inverted 0-10 health score
type HealthBand string

const (
	HealthGood           HealthBand = "good"
	HealthFair           HealthBand = "fair"
	HealthNeedsAttention HealthBand = "needs_attention"
)

// RiskLevel is the headline risk derived from the overall band
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Priority orders recommendations for display
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DimensionScore aggregates the answered members of one dimension
type DimensionScore struct {
	Name               string  `json:"name" bson:"name"`
	Sum                int     `json:"sum" bson:"sum"`
	ValidAnsweredCount int     `json:"validAnsweredCount" bson:"validAnsweredCount"`
	Average            float64 `json:"average" bson:"average"`
}

// OverallScore aggregates the whole session. TotalSum is accumulated over
// dimension members while AverageScore divides by every answered question.
type OverallScore struct {
	TotalSum      int     `json:"totalSum" bson:"totalSum"`
	PositiveCount int     `json:"positiveCount" bson:"positiveCount"`
	AnsweredCount int     `json:"answeredCount" bson:"answeredCount"`
	AverageScore  float64 `json:"averageScore" bson:"averageScore"`
}

// DimensionFinding is the classified, narrated view of a dimension score
type DimensionFinding struct {
	Name           string  `json:"name" bson:"name"`
	FriendlyName   string  `json:"friendlyName" bson:"friendlyName"`
	Average        float64 `json:"average" bson:"average"`
	Band           Band    `json:"band" bson:"band"`
	Interpretation string  `json:"interpretation" bson:"interpretation"`
	Description    string  `json:"description" bson:"description"`
}

// HealthScore is the inverted 0-10 score shown on the gauge
type HealthScore struct {
	Score      float64    `json:"score" bson:"score"`
	Band       HealthBand `json:"band" bson:"band"`
	GaugeAngle float64    `json:"gaugeAngle" bson:"gaugeAngle"`
}

type Recommendation struct {
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Icon        string   `json:"icon,omitempty" bson:"icon,omitempty"`
	Priority    Priority `json:"priority" bson:"priority"`
	Tags        []string `json:"tags" bson:"tags"`
}

// SymptomResult is the outcome of dimensional scoring
type SymptomResult struct {
	Dimensions      []DimensionScore   `json:"dimensions" bson:"dimensions"`
	Overall         OverallScore       `json:"overall" bson:"overall"`
	OverallBand     Band               `json:"overallBand" bson:"overallBand"`
	Findings        []DimensionFinding `json:"findings" bson:"findings"`
	Concerns        []string           `json:"concerns" bson:"concerns"`
	Health          HealthScore        `json:"health" bson:"health"`
	Risk            RiskLevel          `json:"risk" bson:"risk"`
	Summary         string             `json:"summary" bson:"summary"`
	Recommendations []Recommendation   `json:"recommendations" bson:"recommendations"`
}

// TypologyAxis counts the answers leaning to each pole of one axis
type TypologyAxis struct {
	Axis        string `json:"axis" bson:"axis"`
	FirstPole   string `json:"firstPole" bson:"firstPole"`
	SecondPole  string `json:"secondPole" bson:"secondPole"`
	FirstCount  int    `json:"firstCount" bson:"firstCount"`
	SecondCount int    `json:"secondCount" bson:"secondCount"`
	Dominant    string `json:"dominant" bson:"dominant"`
}

// TypologyResult is the outcome of four-axis type scoring
type TypologyResult struct {
	Code        string         `json:"code" bson:"code"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Strengths   []string       `json:"strengths,omitempty" bson:"strengths,omitempty"`
	Challenges  []string       `json:"challenges,omitempty" bson:"challenges,omitempty"`
	Axes        []TypologyAxis `json:"axes" bson:"axes"`
}

// GenericResult is the outcome of plain averaging
type GenericResult struct {
	AverageScore  float64 `json:"averageScore" bson:"averageScore"`
	AnsweredCount int     `json:"answeredCount" bson:"answeredCount"`
}

// Evaluation is a tagged variant: exactly the field matching Kind is set
type Evaluation struct {
	Kind     Kind            `json:"kind" bson:"kind"`
	Symptom  *SymptomResult  `json:"symptom,omitempty" bson:"symptom,omitempty"`
	Typology *TypologyResult `json:"typology,omitempty" bson:"typology,omitempty"`
	Generic  *GenericResult  `json:"generic,omitempty" bson:"generic,omitempty"`
}
