package compliance

import "regexp"

// The four built-in standard rules. Scores and gap texts are frozen —
// downstream consumers compare findings across runs, so changing any
// constant here is a breaking change.

var (
	reReliability = regexp.MustCompile(`(?i)reliab|uptime|availability`)
	reSecurityNFR = regexp.MustCompile(`(?i)security|privacy|access`)
	reSecurityReq = regexp.MustCompile(`(?i)security|auth|encryption|audit|owasp`)
	reThreat      = regexp.MustCompile(`(?i)threat|attack|compliance|risk`)
	reIterative   = regexp.MustCompile(`(?i)iteration|agile|sprint|feedback|increment`)
	reGovernance  = regexp.MustCompile(`(?i)process|compliance|audit|trace`)
)

var rules = []Rule{
	{
		Standard: StandardISO25010,
		Summary:  "产品质量模型覆盖度评估",
		Base:     60,
		Cap:      95,
		Signals: []Signal{
			{Source: sourceNFRAttributes, Points: 5, MaxPoints: 25},
			{Source: sourceNFRAttributes, Pattern: reReliability, Points: 5, Boolean: true, GapBelow: 1, Gap: "缺少可靠性或可用性指标"},
			{Source: sourceNFRAttributes, Pattern: reSecurityNFR, Points: 5, Boolean: true, GapBelow: 1, Gap: "缺少安全相关的度量"},
		},
		Recommendations: []string{
			"为每个质量属性定义可量化指标",
			"维护指标与业务目标的映射",
		},
	},
	{
		Standard: StandardOwaspASVS,
		Summary:  "应用安全控制成熟度",
		Base:     55,
		Cap:      90,
		Signals: []Signal{
			{Source: sourceRequirementText, Pattern: reSecurityReq, Points: 6, GapBelow: 3, Gap: "安全需求不足，建议覆盖鉴权/日志/加密"},
			{Source: sourceDrivers, Pattern: reThreat, Points: 15, Boolean: true},
		},
		Recommendations: []string{
			"引入威胁建模工作坊",
			"将安全验收准入条件纳入质量门禁",
		},
	},
	{
		Standard: StandardAgileManifesto,
		Summary:  "敏捷价值匹配度",
		Base:     50,
		Cap:      85,
		Signals: []Signal{
			{Source: sourceDrivers, Pattern: reIterative, Points: 10, GapBelow: 1, Gap: "缺少迭代式交付驱动"},
		},
		Recommendations: []string{
			"明确 MVP 范围与反馈节奏",
			"建立可视化交付节奏仪表盘",
		},
	},
	{
		Standard: StandardCMMIDev,
		Summary:  "过程成熟度基线",
		Base:     45,
		Cap:      80,
		Signals: []Signal{
			{Source: sourceRequirementDescription, Pattern: reGovernance, Points: 8, GapBelow: 2, Gap: "过程治理活动未显式建模"},
		},
		Recommendations: []string{
			"为关键里程碑设定检查表",
			"跟踪需求到交付的全链路可追溯性",
		},
	},
}

var rulesByStandard = func() map[StandardID]Rule {
	m := make(map[StandardID]Rule, len(rules))
	for _, rule := range rules {
		m[rule.Standard] = rule
	}
	return m
}()

// DefaultStandards returns every known standard in canonical order.
func DefaultStandards() []StandardID {
	ids := make([]StandardID, len(rules))
	for i, rule := range rules {
		ids[i] = rule.Standard
	}
	return ids
}
