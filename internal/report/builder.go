package report

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"mindcheck/internal/model"
	"mindcheck/internal/radar"
	"mindcheck/internal/scoring"
)

var ErrNoRecord = errors.New("no completed assessment to report on")

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// typologyGauge is the fixed gauge reading of type reports, which carry no
// health score of their own
const typologyGauge = 8.5

// NewReportID returns PSY-YYYYMMDD-XXXXXX for the completion date
func NewReportID(completedAt time.Time) string {
	var suffix [6]byte
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("PSY-%s-%s", completedAt.Format("20060102"), suffix[:])
}

// Builder turns a completed record into the typed report model
type Builder struct {
	engine *scoring.Engine
	radar  radar.Options
	now    func() time.Time
	newID  func(time.Time) string
}

func NewBuilder(engine *scoring.Engine) *Builder {
	return &Builder{
		engine: engine,
		radar:  radar.DefaultOptions(),
		now:    time.Now,
		newID:  NewReportID,
	}
}

// Build scores rec and assembles the report for its assessment kind
func (b *Builder) Build(clientID string, a *model.Assessment, rec *model.CompletedRecord) (*model.Report, error) {
	if rec == nil {
		return nil, ErrNoRecord
	}
	session := rec.Session()
	ev, err := b.engine.Evaluate(a, session)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", a.Type, err)
	}

	title := rec.Title
	if title == "" {
		title = a.Title
	}
	r := &model.Report{
		ID:              b.newID(rec.CompletedAt),
		ClientID:        clientID,
		Type:            a.Type,
		Kind:            ev.Kind,
		Title:           title + "报告",
		Subtitle:        "基于" + title + "的专业分析",
		CompletedAt:     rec.CompletedAt,
		DurationMinutes: rec.Duration,
		GeneratedAt:     b.now(),
		Evaluation:      ev,
		Answers:         rec.Answers,
	}

	switch ev.Kind {
	case model.KindSymptom:
		err = b.symptom(r, ev.Symptom)
	case model.KindTypology:
		typology(r, ev.Typology)
	default:
		generic(r, title, rec.Duration, ev.Generic)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Builder) symptom(r *model.Report, res *model.SymptomResult) error {
	health := res.Health
	healthy := health.Band == model.HealthGood
	label := scoring.HealthText(health.Band)

	r.Overall = model.ReportOverall{
		Headline:      label,
		Rating:        fmt.Sprintf("%.1f/10", health.Score),
		Description:   overallDescription(label, healthy),
		HealthScore:   health.Score,
		HealthBand:    health.Band,
		GaugeAngle:    health.GaugeAngle,
		PositiveItems: res.Overall.PositiveCount,
		AverageScore:  res.Overall.AverageScore,
		AnsweredCount: res.Overall.AnsweredCount,
	}

	r.Dimensions = make([]model.ReportDimension, 0, len(res.Findings))
	for _, f := range res.Findings {
		r.Dimensions = append(r.Dimensions, model.ReportDimension{
			Name:            f.Name,
			Score:           fmt.Sprintf("%.2f", f.Average),
			Average:         f.Average,
			Level:           f.Band,
			LevelText:       scoring.BandText(f.Band),
			Interpretation:  f.Interpretation,
			Description:     f.Description,
			ProgressPercent: math.Min(100, f.Average/b.radar.MaxValue*100),
		})
	}

	concerns := "您在各维度表现良好，没有特别需要关注的方面。"
	if len(res.Concerns) > 0 {
		concerns = fmt.Sprintf("您在以下维度需要特别关注：%s。这些维度的得分相对较高，建议您采取相应的改善措施。", strings.Join(res.Concerns, "、"))
	}
	r.Sections = []model.ReportSection{
		{Title: "整体心理健康评估", Icon: "🧠", Content: res.Summary + " 根据您的测评结果，我们建议您关注以下几个方面："},
		{Title: "重点关注维度", Icon: "🎯", Content: concerns},
		{Title: "心理状态分析", Icon: "📊", Content: "您的测评结果显示整体心理健康状况" + riskState(res.Risk) + "。建议您根据具体情况采取相应的维护或改善措施。"},
	}

	r.Recommendations = append(append([]model.Recommendation{}, res.Recommendations...), lifestyleTips()...)

	r.Risk = &model.ReportRisk{
		Level:       res.Risk,
		Text:        riskText(res.Risk),
		Color:       scoring.RiskColor(res.Risk),
		Description: riskDescription(res.Risk),
		Indicators: []model.RiskIndicator{
			{Label: "关注维度", Value: fmt.Sprintf("%d个", len(res.Concerns))},
			{Label: "平均得分", Value: fmt.Sprintf("%.2f", res.Overall.AverageScore)},
			{Label: "阳性项目", Value: fmt.Sprintf("%d个", res.Overall.PositiveCount)},
			{Label: "建议措施", Value: fmt.Sprintf("%d项", len(res.Recommendations))},
		},
	}

	if len(res.Dimensions) > 0 {
		chart, err := radar.Build(radar.FromScores(res.Dimensions), b.radar)
		if err != nil {
			return fmt.Errorf("radar chart: %w", err)
		}
		r.Radar = chart
	}
	return nil
}

func overallDescription(label string, healthy bool) string {
	if healthy {
		return fmt.Sprintf("您的心理健康状况%s，在大多数维度上表现正常。建议继续保持积极的生活方式。", label)
	}
	return fmt.Sprintf("您的心理健康状况%s，在大多数维度上表现需要关注。建议适当关注心理健康，必要时寻求专业支持。", label)
}

func riskState(r model.RiskLevel) string {
	switch r {
	case model.RiskHigh:
		return "需要关注"
	case model.RiskModerate:
		return "基本正常"
	default:
		return "良好"
	}
}

func riskText(r model.RiskLevel) string {
	switch r {
	case model.RiskHigh:
		return "高风险"
	case model.RiskModerate:
		return "中等风险"
	default:
		return "低风险"
	}
}

func riskDescription(r model.RiskLevel) string {
	switch r {
	case model.RiskHigh:
		return "您的心理健康风险较高，建议及时寻求专业心理健康医生的评估和指导。早期干预可以有效预防问题的进一步发展。"
	case model.RiskModerate:
		return "您存在一定程度的心理健康风险，建议适当关注相关症状，必要时寻求专业支持。通过积极的自我调节和生活方式改善，可以有效降低风险。"
	default:
		return "您的心理健康风险较低，整体状况良好。建议继续保持现有的健康生活方式，定期进行心理健康评估。"
	}
}

// lifestyleTips follow the scoring recommendations on every symptom and
// generic report
func lifestyleTips() []model.Recommendation {
	return []model.Recommendation{
		{Title: "保持规律作息", Description: "建立规律的作息时间，保证充足的睡眠，有助于维护心理健康。", Icon: "🕐", Priority: model.PriorityMedium, Tags: []string{"作息规律", "睡眠质量"}},
		{Title: "适量运动锻炼", Description: "定期进行适量的体育锻炼，可以有效缓解压力，改善情绪状态。", Icon: "🏃", Priority: model.PriorityMedium, Tags: []string{"体育锻炼", "压力缓解"}},
		{Title: "健康饮食", Description: "保持均衡的饮食习惯，避免过度摄入咖啡因和糖分，有助于情绪稳定。", Icon: "🥗", Priority: model.PriorityMedium, Tags: []string{"健康饮食", "情绪稳定"}},
		{Title: "社交支持", Description: "与家人朋友保持良好的社交关系，在需要时寻求情感支持。", Icon: "👥", Priority: model.PriorityMedium, Tags: []string{"社交支持", "情感交流"}},
	}
}
