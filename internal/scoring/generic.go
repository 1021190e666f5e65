package scoring

import "mindcheck/internal/model"

// GenericStrategy reports the plain average of answered questions
type GenericStrategy struct{}

func (GenericStrategy) Kind() model.Kind { return model.KindGeneric }

func (GenericStrategy) Score(_ *model.Assessment, s *model.Session) *model.Evaluation {
	sum, answered, _ := tally(s)
	res := &model.GenericResult{AnsweredCount: answered}
	if answered > 0 {
		res.AverageScore = float64(sum) / float64(answered)
	}
	return &model.Evaluation{Kind: model.KindGeneric, Generic: res}
}
