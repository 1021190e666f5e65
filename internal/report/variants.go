package report

import (
	"fmt"
	"strings"

	"mindcheck/internal/model"
	"mindcheck/internal/scoring"
)

var poleNames = map[string]string{
	"E": "外向", "I": "内向",
	"S": "感觉", "N": "直觉",
	"T": "思考", "F": "情感",
	"J": "判断", "P": "知觉",
}

var poleDescriptions = map[string]string{
	"E": "您更偏向外向，从社交中获得能量",
	"I": "您更偏内向，从独处中获得能量",
	"S": "您更关注具体事实和细节",
	"N": "您更关注可能性和模式",
	"T": "您更基于逻辑和客观分析做决定",
	"F": "您更基于价值观和他人感受做决定",
	"J": "您更喜欢有计划、有组织的生活方式",
	"P": "您更喜欢灵活、随性的生活方式",
}

func typology(r *model.Report, res *model.TypologyResult) {
	r.Overall = model.ReportOverall{
		Headline:    fmt.Sprintf("%s - %s", res.Code, res.Title),
		Rating:      "人格类型",
		Description: fmt.Sprintf("您的人格类型是%s（%s）。%s", res.Code, res.Title, res.Description),
		HealthScore: typologyGauge,
		GaugeAngle:  scoring.GaugeAngle(typologyGauge),
	}

	r.Dimensions = make([]model.ReportDimension, 0, len(res.Axes))
	for _, ax := range res.Axes {
		name := fmt.Sprintf("%s(%s) - %s(%s)", poleNames[ax.FirstPole], ax.FirstPole, poleNames[ax.SecondPole], ax.SecondPole)
		r.Dimensions = append(r.Dimensions, model.ReportDimension{
			Name:        name,
			Score:       ax.Dominant,
			Level:       model.BandNormal,
			LevelText:   "偏向" + ax.Dominant,
			Description: poleDescriptions[ax.Dominant],
		})
	}

	r.Sections = []model.ReportSection{
		{Title: r.Overall.Headline, Icon: "🧠", Content: res.Description + "。您在四个维度上的偏好组合形成了独特的人格特质。"},
		{Title: "核心优势", Icon: "💪", Content: "您的主要优势包括：" + strings.Join(res.Strengths, "、") + "。这些特质使您在特定的环境和情境中表现出色。"},
		{Title: "发展建议", Icon: "🎯", Content: "您可以关注以下方面的成长：" + strings.Join(res.Challenges, "、") + "。认识到这些潜在挑战有助于您的个人发展。"},
	}

	r.Recommendations = []model.Recommendation{
		{Title: "了解您的优势", Description: fmt.Sprintf("深入了解并发挥您的%s特质，在工作和生活中找到适合发挥这些优势的领域。", first(res.Strengths)), Icon: "🎯", Priority: model.PriorityHigh, Tags: []string{"优势发展", "自我认知"}},
		{Title: "平衡发展", Description: fmt.Sprintf("关注您的%s倾向，尝试在保持本色的同时发展相对薄弱的方面。", first(res.Challenges)), Icon: "⚖️", Priority: model.PriorityMedium, Tags: []string{"个人成长", "平衡发展"}},
		{Title: "适合的职业方向", Description: fmt.Sprintf("基于您的%s人格类型，考虑选择与您天性相符的职业发展路径。", res.Code), Icon: "💼", Priority: model.PriorityMedium, Tags: []string{"职业规划", "发展方向"}},
		{Title: "人际关系建议", Description: "了解您的人格特质如何影响人际交往，建立更和谐的社交关系。", Icon: "👥", Priority: model.PriorityMedium, Tags: []string{"人际关系", "沟通技巧"}},
	}

	r.Risk = &model.ReportRisk{
		Level:       model.RiskLow,
		Text:        riskText(model.RiskLow),
		Color:       scoring.RiskColor(model.RiskLow),
		Description: fmt.Sprintf("人格测试是性格评估工具，不存在心理健康风险。您的%s人格类型代表您的自然偏好和倾向，没有好坏之分。建议您将测试结果作为自我了解和发展的参考，而不是评判自己的标准。", res.Code),
		Indicators: []model.RiskIndicator{
			{Label: "人格类型", Value: res.Code},
			{Label: "核心优势", Value: fmt.Sprintf("%d项", len(res.Strengths))},
			{Label: "发展建议", Value: fmt.Sprintf("%d项", len(res.Challenges))},
			{Label: "风险等级", Value: riskText(model.RiskLow)},
		},
	}
}

func generic(r *model.Report, title string, duration int, res *model.GenericResult) {
	r.Overall = model.ReportOverall{
		Headline:      "已完成",
		Rating:        fmt.Sprintf("%.2f", res.AverageScore),
		Description:   fmt.Sprintf("您已完成%s，平均得分为%.2f分。", title, res.AverageScore),
		AverageScore:  res.AverageScore,
		AnsweredCount: res.AnsweredCount,
	}
	content := fmt.Sprintf("您已完成%s，平均得分为%.2f分。测评用时%d分钟，完成%d道题目。",
		title, res.AverageScore, duration, res.AnsweredCount)
	r.Sections = []model.ReportSection{{Title: "测评结果分析", Icon: "📊", Content: content}}
	r.Recommendations = lifestyleTips()
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
