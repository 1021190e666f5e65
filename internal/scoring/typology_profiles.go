package scoring

type typeProfile struct {
	title       string
	description string
	strengths   []string
	challenges  []string
}

var unknownProfile = typeProfile{
	title:       "独特个性",
	description: "您具有独特的人格特质组合",
	strengths:   []string{"适应性强", "学习能力", "自我认知"},
	challenges:  []string{"需要发展", "平衡生活", "持续成长"},
}

var typeProfiles = map[string]typeProfile{
	"INTJ": {"建筑师", "富有想象力和战略性的思想家", []string{"战略思维", "独立自主", "追求完美"}, []string{"过于理想化", "缺乏耐心", "社交困难"}},
	"INTP": {"逻辑学家", "具有创新精神的发明家，对知识有着止不住的渴望", []string{"逻辑思维", "创新能力", "好奇心强"}, []string{"拖延倾向", "不善于表达", "过于理性"}},
	"ENTJ": {"指挥官", "大胆、富有想象力和意志强烈的领导者", []string{"领导能力", "目标导向", "决策果断"}, []string{"过于强势", "缺乏耐心", "忽视他人感受"}},
	"ENTP": {"辩论家", "聪明好奇的思想家，不会放弃智力挑战", []string{"创新思维", "适应性强", "善于辩论"}, []string{"注意力分散", "缺乏执行力", "争强好胜"}},
	"INFJ": {"提倡者", "安静而神秘，同时鼓舞他人并充满热情", []string{"洞察力强", "富有同理心", "追求意义"}, []string{"过于理想化", "容易倦怠", "过度敏感"}},
	"INFP": {"调停者", "诗意、善良和利他的人，总是热切地帮助正义事业", []string{"创造力强", "价值观坚定", "善解人意"}, []string{"过于理想化", "决策困难", "容易受伤"}},
	"ENFJ": {"主人公", "有魅力、鼓舞人心的领导者，有感化他人的能力", []string{"领导能力", "同理心强", "善于沟通"}, []string{"过度关心他人", "缺乏自我关注", "决策情绪化"}},
	"ENFP": {"竞选者", "热情、有创造力和有社交能力的真正自由精神", []string{"热情洋溢", "创造力强", "人际交往"}, []string{"注意力分散", "缺乏条理", "过度承诺"}},
	"ISTJ": {"物流师", "实用且注重事实的个人，可靠性不容怀疑", []string{"责任心强", "注重细节", "可靠稳定"}, []string{"缺乏灵活性", "过于传统", "不善变通"}},
	"ISFJ": {"守护者", "非常专注和温暖的守护者，时刻准备保护爱的人", []string{"细心体贴", "忠诚可靠", "服务精神"}, []string{"过度自我牺牲", "抗拒改变", "过度保护"}},
	"ESTJ": {"总经理", "出色的管理者，在管理事物或事情方面无与伦比", []string{"组织能力强", "务实高效", "领导能力"}, []string{"过于严格", "缺乏灵活性", "传统保守"}},
	"ESFJ": {"执政官", "极其有同理心、受欢迎和有社交能力的人，总是热心帮助他人", []string{"社交能力强", "关心他人", "责任感强"}, []string{"过度关心他人", "缺乏自我关注", "抗拒改变"}},
	"ISTP": {"鉴赏家", "大胆而实用的实验家，擅长使用各种工具", []string{"实践能力强", "冷静沉着", "适应性强"}, []string{"缺乏长期规划", "不善表达", "冒险倾向"}},
	"ISFP": {"探险家", "灵活而有魅力的艺术家，时刻准备探索新的可能性", []string{"艺术天赋", "温和友善", "热爱生活"}, []string{"缺乏计划性", "过于敏感", "避免冲突"}},
	"ESTP": {"企业家", "聪明、精力充沛的感知者，真心享受生活在边缘", []string{"适应性强", "务实高效", "乐观开朗"}, []string{"缺乏长远规划", "冲动行事", "缺乏耐心"}},
	"ESFP": {"娱乐家", "自发的、精力充沛和热情的表演者，生活在他们周围从不缺少", []string{"热情开朗", "人际交往", "活在当下"}, []string{"缺乏计划性", "注意力分散", "避免冲突"}},
}

func profileFor(code string) typeProfile {
	if p, ok := typeProfiles[code]; ok {
		return p
	}
	return unknownProfile
}
