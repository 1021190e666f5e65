package scoring

import (
	"strings"

	"mindcheck/internal/model"
)

const (
	// TypologyItemLimit caps how many leading answers feed the type axes
	TypologyItemLimit = 60
	// TypologyPoleThreshold is the lowest answer leaning to the first pole
	TypologyPoleThreshold = 3
)

var typologyAxes = [4][3]string{
	{"EI", "E", "I"},
	{"SN", "S", "N"},
	{"TF", "T", "F"},
	{"JP", "J", "P"},
}

// TypologyStrategy derives a four-letter type. Question i feeds axis i%4;
// ties resolve to the second pole.
type TypologyStrategy struct{}

func (TypologyStrategy) Kind() model.Kind { return model.KindTypology }

func (TypologyStrategy) Score(a *model.Assessment, s *model.Session) *model.Evaluation {
	axes := make([]model.TypologyAxis, len(typologyAxes))
	for i, ax := range typologyAxes {
		axes[i] = model.TypologyAxis{Axis: ax[0], FirstPole: ax[1], SecondPole: ax[2]}
	}

	limit := len(s.Answers)
	if limit > TypologyItemLimit {
		limit = TypologyItemLimit
	}
	for i := 0; i < limit; i++ {
		v, ok := answerAt(s, i)
		if !ok {
			continue
		}
		ax := &axes[i%len(axes)]
		if v >= TypologyPoleThreshold {
			ax.FirstCount++
		} else {
			ax.SecondCount++
		}
	}

	var code strings.Builder
	for i := range axes {
		if axes[i].FirstCount > axes[i].SecondCount {
			axes[i].Dominant = axes[i].FirstPole
		} else {
			axes[i].Dominant = axes[i].SecondPole
		}
		code.WriteString(axes[i].Dominant)
	}

	p := profileFor(code.String())
	return &model.Evaluation{
		Kind: model.KindTypology,
		Typology: &model.TypologyResult{
			Code:        code.String(),
			Title:       p.title,
			Description: p.description,
			Strengths:   p.strengths,
			Challenges:  p.challenges,
			Axes:        axes,
		},
	}
}
