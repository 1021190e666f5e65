package catalog

import (
	"errors"
	"fmt"
	"os"

	"mindcheck/internal/model"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingType      = errors.New("assessment type is required")
	ErrNoQuestions      = errors.New("assessment has no questions")
	ErrNoAnswerOptions  = errors.New("assessment has no answer options")
	ErrOptionOrder      = errors.New("answer option values must be strictly increasing")
	ErrItemOutOfRange   = errors.New("dimension item is out of range")
	ErrUnknownKind      = errors.New("unknown assessment kind")
	ErrDuplicateType    = errors.New("assessment type already registered")
	ErrQuestionNotFound = errors.New("question index out of range")
)

type fileDimension struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Items       []int  `yaml:"items"` // 1-based item numbers
}

type fileOption struct {
	Value       int    `yaml:"value"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

type fileAssessment struct {
	Type          string          `yaml:"type"`
	Kind          string          `yaml:"kind"`
	Title         string          `yaml:"title"`
	Description   string          `yaml:"description"`
	EstimatedTime string          `yaml:"estimated_time"`
	Icon          string          `yaml:"icon"`
	Dimensions    []fileDimension `yaml:"dimensions"`
	AnswerOptions []fileOption    `yaml:"answer_options"`
	Questions     []string        `yaml:"questions"`
}

// LoadFile reads one assessment definition from a YAML file
func LoadFile(path string) (*model.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assessment file: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Parse decodes and validates a YAML assessment definition
func Parse(data []byte) (*model.Assessment, error) {
	var f fileAssessment
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment YAML: %w", err)
	}

	kind := model.Kind(f.Kind)
	if f.Kind == "" {
		kind = model.KindGeneric
		if len(f.Dimensions) > 0 {
			kind = model.KindSymptom
		}
	}

	a := &model.Assessment{
		Type:          f.Type,
		Kind:          kind,
		Title:         f.Title,
		Description:   f.Description,
		EstimatedTime: f.EstimatedTime,
		Icon:          f.Icon,
		Questions:     make([]model.Question, len(f.Questions)),
		Dimensions:    make([]model.Dimension, 0, len(f.Dimensions)),
		AnswerOptions: make([]model.AnswerOption, 0, len(f.AnswerOptions)),
	}
	for i, text := range f.Questions {
		a.Questions[i] = model.Question{Index: i, Text: text}
	}
	for _, d := range f.Dimensions {
		members := make([]int, len(d.Items))
		for i, item := range d.Items {
			members[i] = item - 1
		}
		a.Dimensions = append(a.Dimensions, model.Dimension{
			Name:        d.Name,
			Questions:   members,
			Description: d.Description,
		})
	}
	for _, o := range f.AnswerOptions {
		a.AnswerOptions = append(a.AnswerOptions, model.AnswerOption{
			Value:       o.Value,
			Label:       o.Label,
			Description: o.Description,
		})
	}

	if err := Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the structural invariants of an assessment
func Validate(a *model.Assessment) error {
	if a.Type == "" {
		return ErrMissingType
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	if len(a.Questions) == 0 {
		return ErrNoQuestions
	}
	if len(a.AnswerOptions) == 0 {
		return ErrNoAnswerOptions
	}
	for i := 1; i < len(a.AnswerOptions); i++ {
		if a.AnswerOptions[i].Value <= a.AnswerOptions[i-1].Value {
			return ErrOptionOrder
		}
	}
	for _, d := range a.Dimensions {
		for _, q := range d.Questions {
			if q < 0 || q >= len(a.Questions) {
				return fmt.Errorf("%w: dimension %s item %d", ErrItemOutOfRange, d.Name, q+1)
			}
		}
	}
	return nil
}
