package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"mindcheck/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledSCL90(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	a := c.Get("scl90")
	require.NotNil(t, a)
	assert.Equal(t, model.KindSymptom, a.Kind)
	assert.Equal(t, 90, a.QuestionCount())
	assert.Len(t, a.Dimensions, 10)
	assert.Len(t, a.AnswerOptions, 5)
	assert.Equal(t, "头痛", a.Questions[0].Text)
	assert.Equal(t, "躯体化", a.Dimensions[0].Name)
	assert.Equal(t, "其他", a.Dimensions[9].Name)
	// item 1 is stored as index 0
	assert.Equal(t, 0, a.Dimensions[0].Questions[0])
}

func TestBundledSCL90PartitionCoversEveryQuestionOnce(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, d := range c.Get("scl90").Dimensions {
		for _, q := range d.Questions {
			seen[q]++
		}
	}
	assert.Len(t, seen, 90)
	for q, n := range seen {
		assert.Equalf(t, 1, n, "question %d", q)
	}
}

func TestUnknownTypeFallsBack(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	assert.Equal(t, DefaultType, c.Resolve("nope"))
	assert.Equal(t, DefaultType, c.Resolve(""))
	assert.Equal(t, c.GetQuestions("scl90"), c.GetQuestions("nope"))
	assert.Equal(t, c.GetAnswerOptions("scl90"), c.GetAnswerOptions("nope"))
}

func TestGetDimensionOf(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	assert.Equal(t, "躯体化", c.GetDimensionOf("scl90", 0))
	assert.Equal(t, "焦虑", c.GetDimensionOf("scl90", 1))
	assert.Equal(t, "精神病性", c.GetDimensionOf("scl90", 89))
	assert.Equal(t, GenericDimension, c.GetDimensionOf("scl90", 90))
	assert.Equal(t, GenericDimension, c.GetDimensionOf("scl90", -1))
}

func TestGetDimensionOfNonSymptomKind(t *testing.T) {
	generic := &model.Assessment{
		Type:          "mood",
		Kind:          model.KindGeneric,
		Questions:     []model.Question{{Index: 0, Text: "a"}},
		Dimensions:    []model.Dimension{{Name: "x", Questions: []int{0}}},
		AnswerOptions: []model.AnswerOption{{Value: 1}, {Value: 2}},
	}
	c, err := New("mood", generic)
	require.NoError(t, err)

	assert.Equal(t, GenericDimension, c.GetDimensionOf("mood", 0))
}

func TestQuestionView(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	q, err := c.Question("scl90", 4)
	require.NoError(t, err)
	assert.Equal(t, "对异性的兴趣减退", q.Text)
	assert.Equal(t, "抑郁", q.Dimension)
	assert.Equal(t, 90, q.Total)

	_, err = c.Question("scl90", 90)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "missing type",
			yaml: "questions: [a]\nanswer_options: [{value: 1}]",
			err:  ErrMissingType,
		},
		{
			name: "no questions",
			yaml: "type: t\nanswer_options: [{value: 1}]",
			err:  ErrNoQuestions,
		},
		{
			name: "no options",
			yaml: "type: t\nquestions: [a]",
			err:  ErrNoAnswerOptions,
		},
		{
			name: "unordered options",
			yaml: "type: t\nquestions: [a]\nanswer_options: [{value: 2}, {value: 1}]",
			err:  ErrOptionOrder,
		},
		{
			name: "item out of range",
			yaml: "type: t\nquestions: [a]\nanswer_options: [{value: 1}]\ndimensions: [{name: d, items: [2]}]",
			err:  ErrItemOutOfRange,
		},
		{
			name: "bad kind",
			yaml: "type: t\nkind: tarot\nquestions: [a]\nanswer_options: [{value: 1}]",
			err:  ErrUnknownKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseInfersKind(t *testing.T) {
	a, err := Parse([]byte("type: t\nquestions: [a, b]\nanswer_options: [{value: 1}]"))
	require.NoError(t, err)
	assert.Equal(t, model.KindGeneric, a.Kind)

	a, err = Parse([]byte("type: t\nquestions: [a, b]\nanswer_options: [{value: 1}]\ndimensions: [{name: d, items: [1, 2]}]"))
	require.NoError(t, err)
	assert.Equal(t, model.KindSymptom, a.Kind)
	assert.Equal(t, []int{0, 1}, a.Dimensions[0].Questions)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	def := "type: mbti\nkind: typology\ntitle: 性格类型\nquestions: [a, b, c, d]\nanswer_options: [{value: 1}, {value: 5}]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mbti.yaml"), []byte(def), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := Bundled()
	require.NoError(t, err)

	n, err := c.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "mbti", c.Resolve("mbti"))
	assert.Len(t, c.List(), 2)

	_, err = c.LoadDir(dir)
	assert.ErrorIs(t, err, ErrDuplicateType)
}
