package scoring

import "mindcheck/internal/model"

// SymptomStrategy scores dimensional symptom inventories such as SCL-90
type SymptomStrategy struct{}

func (SymptomStrategy) Kind() model.Kind { return model.KindSymptom }

// ScoreDimensions aggregates answers per dimension in catalog order.
// TotalSum accumulates inside the dimension loop, so a question counts once
// per dimension it belongs to, while AverageScore divides by the number of
// answered questions in the whole session. PositiveCount covers every
// answered question regardless of membership.
func ScoreDimensions(a *model.Assessment, s *model.Session) ([]model.DimensionScore, model.OverallScore) {
	dims := make([]model.DimensionScore, 0, len(a.Dimensions))
	var overall model.OverallScore

	for _, d := range a.Dimensions {
		ds := model.DimensionScore{Name: d.Name}
		for _, q := range d.Questions {
			v, ok := answerAt(s, q)
			if !ok {
				continue
			}
			ds.Sum += v
			ds.ValidAnsweredCount++
			overall.TotalSum += v
		}
		if ds.ValidAnsweredCount > 0 {
			ds.Average = float64(ds.Sum) / float64(ds.ValidAnsweredCount)
		}
		dims = append(dims, ds)
	}

	_, answered, positive := tally(s)
	overall.AnsweredCount = answered
	overall.PositiveCount = positive
	if answered > 0 {
		overall.AverageScore = float64(overall.TotalSum) / float64(answered)
	}
	return dims, overall
}

func (SymptomStrategy) Score(a *model.Assessment, s *model.Session) *model.Evaluation {
	dims, overall := ScoreDimensions(a, s)

	res := &model.SymptomResult{
		Dimensions:  dims,
		Overall:     overall,
		OverallBand: Classify(overall.AverageScore),
		Findings:    make([]model.DimensionFinding, 0, len(dims)),
		Concerns:    []string{},
	}
	res.Risk = Risk(res.OverallBand)
	res.Summary = OverallSummary(res.OverallBand)

	for _, ds := range dims {
		band := Classify(ds.Average)
		friendly := FriendlyName(ds.Name)
		res.Findings = append(res.Findings, model.DimensionFinding{
			Name:           ds.Name,
			FriendlyName:   friendly,
			Average:        ds.Average,
			Band:           band,
			Interpretation: Interpret(ds.Average),
			Description:    DimensionDescription(friendly, band),
		})
		if band != model.BandNormal {
			res.Concerns = append(res.Concerns, ds.Name)
		}
	}

	health := HealthScore(overall.AverageScore)
	res.Health = model.HealthScore{
		Score:      health,
		Band:       ClassifyHealth(health),
		GaugeAngle: GaugeAngle(health),
	}
	res.Recommendations = Recommendations(len(res.Concerns) > 0)

	return &model.Evaluation{Kind: model.KindSymptom, Symptom: res}
}
