// Package plan derives a TechnicalPlan from a Specification.
//
// Everything here is deterministic given the specification and the
// clock: principles mirror the functional themes, the technology stack
// is a fixed three-layer recommendation, and delivery phases split a
// baseline timeline 25/35/40.
package plan

import (
	"fmt"
	"math"
	"time"

	"github.com/HendryAvila/sdd-kit/internal/compliance"
	"github.com/HendryAvila/sdd-kit/internal/spec"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// ArchitecturePrinciple is one guiding principle, derived 1:1 from a
// functional theme.
type ArchitecturePrinciple struct {
	Name      string   `json:"name"`
	Statement string   `json:"statement"`
	Rationale string   `json:"rationale"`
	Practices []string `json:"practices"`
}

// TechnologyChoice recommends a technology for one layer.
type TechnologyChoice struct {
	Layer          string   `json:"layer"`
	Recommendation string   `json:"recommendation"`
	Justification  string   `json:"justification"`
	Alternatives   []string `json:"alternatives"`
}

// DeliveryPhase is one scheduled stretch of the delivery timeline.
type DeliveryPhase struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DurationWeeks int      `json:"durationWeeks"`
	Objectives    []string `json:"objectives"`
	EntryCriteria []string `json:"entryCriteria"`
	ExitCriteria  []string `json:"exitCriteria"`
}

// TechnicalPlan is the root output of the plan phase.
type TechnicalPlan struct {
	ArchitecturePrinciples []ArchitecturePrinciple `json:"architecturePrinciples"`
	TechnologyStack        []TechnologyChoice      `json:"technologyStack"`
	DeliveryPhases         []DeliveryPhase         `json:"deliveryPhases"`
	AutomationBacklog      []string                `json:"automationBacklog"`
	QualityGates           []string                `json:"qualityGates"`
	ComplianceFollowUps    []compliance.Finding    `json:"complianceFollowUps"`
	LastUpdated            string                  `json:"lastUpdated"`
}

// minTimelineWeeks floors the delivery timeline regardless of how few
// success criteria the specification carries.
const minTimelineWeeks = 12

// Build derives a TechnicalPlan from the specification. Calling it twice
// with the same specification yields plans differing only in
// lastUpdated.
func Build(specification spec.Specification) TechnicalPlan {
	followUps := []compliance.Finding{}
	for _, finding := range specification.Compliance {
		if len(finding.Gaps) > 0 {
			followUps = append(followUps, finding)
		}
	}

	return TechnicalPlan{
		ArchitecturePrinciples: derivePrinciples(specification),
		TechnologyStack:        suggestTechnologyStack(),
		DeliveryPhases:         buildDeliveryPhases(specification),
		AutomationBacklog: []string{
			"流水线：静态扫描 + 单元测试 + 构建 + 部署",
			"质量门禁：关键指标未达标即阻断",
			"知识库：自动生成规范与报告",
		},
		QualityGates: []string{
			"规范审查通过",
			"关键指标度量可用",
			"安全扫描零阻塞",
		},
		ComplianceFollowUps: followUps,
		LastUpdated:         timeNow().UTC().Format(time.RFC3339),
	}
}

func derivePrinciples(specification spec.Specification) []ArchitecturePrinciple {
	principles := make([]ArchitecturePrinciple, len(specification.FunctionalThemes))
	for i, theme := range specification.FunctionalThemes {
		principles[i] = ArchitecturePrinciple{
			Name:      fmt.Sprintf("%s 端到端", theme.Name),
			Statement: fmt.Sprintf("围绕 %s 打造可扩展能力", theme.Name),
			Rationale: fmt.Sprintf("%s，确保需求可持续演化", theme.Description),
			Practices: []string{
				"模块边界清晰",
				"可观测性纳入设计",
				"公共契约自动化测试",
			},
		}
	}
	return principles
}

// suggestTechnologyStack returns the fixed three-layer recommendation.
// Deliberately not content-sensitive.
func suggestTechnologyStack() []TechnologyChoice {
	return []TechnologyChoice{
		{
			Layer:          "接口层",
			Recommendation: "Node.js + GraphQL / REST 混合",
			Justification:  "满足多终端编排需求",
			Alternatives:   []string{"Go HTTP", "Java Spring"},
		},
		{
			Layer:          "体验层",
			Recommendation: "React + Tailwind + 状态图引擎",
			Justification:  "便于快速搭建可视化 SDD 工具",
			Alternatives:   []string{"Vue", "Svelte"},
		},
		{
			Layer:          "知识存储",
			Recommendation: "JSON 文档库 + 向量索引",
			Justification:  "支持规范模板与搜索",
			Alternatives:   []string{"PostgreSQL", "SQLite"},
		},
	}
}

func buildDeliveryPhases(specification spec.Specification) []DeliveryPhase {
	baseTimeline := float64(len(specification.SuccessCriteria) * 2)
	if baseTimeline < minTimelineWeeks {
		baseTimeline = minTimelineWeeks
	}

	weeks := func(share float64) int {
		return int(math.Round(baseTimeline * share))
	}

	return []DeliveryPhase{
		{
			ID:            "discovery",
			Name:          "洞察与规范化",
			DurationWeeks: weeks(0.25),
			Objectives:    []string{"锁定业务驱动", "完成规范建模"},
			EntryCriteria: []string{"核心干系人确认"},
			ExitCriteria:  []string{"规范包版本 v1"},
		},
		{
			ID:            "foundation",
			Name:          "技术方案与底座",
			DurationWeeks: weeks(0.35),
			Objectives:    []string{"完成技术蓝图", "建立自助化工具"},
			EntryCriteria: []string{"规范包可执行"},
			ExitCriteria:  []string{"通过质量门禁"},
		},
		{
			ID:            "scale",
			Name:          "增量交付",
			DurationWeeks: weeks(0.40),
			Objectives:    []string{"迭代交付任务", "生成实施报告"},
			EntryCriteria: []string{"底座上线"},
			ExitCriteria:  []string{"整体验收"},
		},
	}
}
