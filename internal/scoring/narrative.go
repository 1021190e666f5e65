package scoring

import (
	"fmt"

	"mindcheck/internal/model"
)

var friendlyNames = map[string]string{
	"躯体化":    "身体不适感",
	"强迫症状":   "强迫性行为和思维",
	"人际关系敏感": "人际交往敏感性",
	"抑郁":     "抑郁情绪",
	"焦虑":     "焦虑水平",
	"敌对":     "敌对情绪",
	"恐怖":     "恐惧感",
	"偏执":     "偏执思维",
	"精神病性":   "精神病性症状",
	"其他":     "睡眠和饮食",
}

// FriendlyName returns the reader-facing wording of a dimension name
func FriendlyName(dimension string) string {
	if n, ok := friendlyNames[dimension]; ok {
		return n
	}
	return dimension
}

// OverallSummary is the headline sentence for the overall band
func OverallSummary(b model.Band) string {
	switch b {
	case model.BandConcern:
		return "您的心理健康状况需要关注，建议寻求专业心理健康支持。"
	case model.BandMild:
		return "您的心理健康状况基本正常，但某些方面可能需要适当关注。"
	default:
		return "您的心理健康状况良好，各项症状表现都在正常范围内。"
	}
}

// DimensionDescription narrates one dimension's band
func DimensionDescription(friendly string, b model.Band) string {
	switch b {
	case model.BandConcern:
		return fmt.Sprintf("您的%s需要重点关注，建议寻求专业帮助。", friendly)
	case model.BandMild:
		return fmt.Sprintf("您的%s有轻度表现，建议适当关注。", friendly)
	default:
		return fmt.Sprintf("您的%s处于正常范围。", friendly)
	}
}

// BandText is the short level label used on score cards and the legend
func BandText(b model.Band) string {
	switch b {
	case model.BandConcern:
		return "需关注"
	case model.BandMild:
		return "轻度"
	default:
		return "正常"
	}
}

// HealthText is the label of a health band
func HealthText(b model.HealthBand) string {
	switch b {
	case model.HealthGood:
		return "良好"
	case model.HealthFair:
		return "一般"
	default:
		return "需要关注"
	}
}

// Recommendations returns the scoring recommendations. Professional support
// comes first when any dimension is mild or concern.
func Recommendations(needsSupport bool) []model.Recommendation {
	recs := make([]model.Recommendation, 0, 3)
	if needsSupport {
		recs = append(recs, model.Recommendation{
			Title:       "专业咨询建议",
			Description: "基于您的测评结果，建议寻求专业心理健康医生的评估和指导。",
			Priority:    model.PriorityHigh,
			Tags:        []string{"专业建议", "心理咨询"},
		})
	}
	recs = append(recs,
		model.Recommendation{
			Title:       "保持健康生活方式",
			Description: "规律作息、适量运动、均衡饮食有助于维护心理健康。",
			Priority:    model.PriorityMedium,
			Tags:        []string{"生活方式", "健康习惯"},
		},
		model.Recommendation{
			Title:       "压力管理",
			Description: "学习有效的压力管理技巧，如深呼吸、冥想、放松训练等。",
			Priority:    model.PriorityMedium,
			Tags:        []string{"压力管理", "放松技巧"},
		},
	)
	return recs
}
