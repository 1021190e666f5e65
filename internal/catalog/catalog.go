package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mindcheck/internal/model"
)

const (
	// DefaultType is served for unknown or empty assessment types
	DefaultType = "scl90"
	// GenericDimension labels questions outside every dimension
	GenericDimension = "综合测评"
)

//go:embed data/*.yaml
var bundled embed.FS

// Catalog holds the assessment definitions. Register everything before
// serving requests; lookups are read-only afterwards.
type Catalog struct {
	assessments map[string]*model.Assessment
	order       []string
	defaultType string
}

// New creates a catalog from the given assessments
func New(defaultType string, assessments ...*model.Assessment) (*Catalog, error) {
	c := &Catalog{
		assessments: make(map[string]*model.Assessment),
		defaultType: defaultType,
	}
	for _, a := range assessments {
		if err := c.Add(a); err != nil {
			return nil, err
		}
	}
	if _, ok := c.assessments[defaultType]; !ok {
		return nil, fmt.Errorf("default assessment %q is not registered", defaultType)
	}
	return c, nil
}

// Bundled loads the embedded assessment definitions
func Bundled() (*Catalog, error) {
	entries, err := fs.ReadDir(bundled, "data")
	if err != nil {
		return nil, err
	}
	var list []*model.Assessment
	for _, e := range entries {
		data, err := bundled.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, err
		}
		a, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("bundled %s: %w", e.Name(), err)
		}
		list = append(list, a)
	}
	return New(DefaultType, list...)
}

// Add registers an assessment after validating it
func (c *Catalog) Add(a *model.Assessment) error {
	if err := Validate(a); err != nil {
		return err
	}
	if _, ok := c.assessments[a.Type]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, a.Type)
	}
	c.assessments[a.Type] = a
	c.order = append(c.order, a.Type)
	return nil
}

// LoadDir registers every *.yaml / *.yml file in dir and returns how many
// were added
func (c *Catalog) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		a, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		if err := c.Add(a); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Resolve returns the effective type after falling back to the default
func (c *Catalog) Resolve(assessmentType string) string {
	if _, ok := c.assessments[assessmentType]; ok {
		return assessmentType
	}
	return c.defaultType
}

// Get returns the assessment for type, or the default one. Never nil.
func (c *Catalog) Get(assessmentType string) *model.Assessment {
	return c.assessments[c.Resolve(assessmentType)]
}

// GetQuestions returns the ordered questions of type
func (c *Catalog) GetQuestions(assessmentType string) []model.Question {
	return c.Get(assessmentType).Questions
}

// GetAnswerOptions returns the ordered answer options of type
func (c *Catalog) GetAnswerOptions(assessmentType string) []model.AnswerOption {
	return c.Get(assessmentType).AnswerOptions
}

// GetDimensionOf returns the first dimension containing the 0-based
// question index, or GenericDimension
func (c *Catalog) GetDimensionOf(assessmentType string, questionIndex int) string {
	a := c.Get(assessmentType)
	if a.Kind != model.KindSymptom {
		return GenericDimension
	}
	for _, d := range a.Dimensions {
		if d.Contains(questionIndex) {
			return d.Name
		}
	}
	return GenericDimension
}

// Question returns one question with its dimension label
func (c *Catalog) Question(assessmentType string, index int) (*model.QuestionView, error) {
	qs := c.GetQuestions(assessmentType)
	if index < 0 || index >= len(qs) {
		return nil, fmt.Errorf("%w: %d", ErrQuestionNotFound, index)
	}
	return &model.QuestionView{
		Question:  qs[index],
		Dimension: c.GetDimensionOf(assessmentType, index),
		Total:     len(qs),
	}, nil
}

// List returns the catalog cards in registration order
func (c *Catalog) List() []model.AssessmentSummary {
	out := make([]model.AssessmentSummary, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.assessments[t].Summary())
	}
	return out
}
