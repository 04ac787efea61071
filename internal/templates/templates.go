// Package templates holds the default document templates and the
// override registry. Templates use the minimal language implemented by
// internal/render.
package templates

// Registry is the fully resolved template set the engine renders from.
type Registry struct {
	Constitution string `json:"constitution"`
	Principles   string `json:"principles"`
	Report       string `json:"report"`
}

// Overrides is a partial registry: empty fields fall back to the
// defaults. This is also the persisted shape of the override store.
type Overrides struct {
	Constitution string `json:"constitution,omitempty"`
	Principles   string `json:"principles,omitempty"`
	Report       string `json:"report,omitempty"`
}

// Merge layers other on top of o; non-empty fields in other win.
func (o Overrides) Merge(other Overrides) Overrides {
	if other.Constitution != "" {
		o.Constitution = other.Constitution
	}
	if other.Principles != "" {
		o.Principles = other.Principles
	}
	if other.Report != "" {
		o.Report = other.Report
	}
	return o
}

// Resolve produces the effective registry from a set of overrides.
func Resolve(overrides Overrides) Registry {
	registry := Defaults()
	if overrides.Constitution != "" {
		registry.Constitution = overrides.Constitution
	}
	if overrides.Principles != "" {
		registry.Principles = overrides.Principles
	}
	if overrides.Report != "" {
		registry.Report = overrides.Report
	}
	return registry
}

// Defaults returns the built-in templates.
func Defaults() Registry {
	return Registry{
		Constitution: defaultConstitution,
		Principles:   defaultPrinciples,
		Report:       defaultReport,
	}
}

const defaultConstitution = `# {{projectName}} 研发宪章

> 领域：{{domain}}
> 使命：{{description}}

## 交付基本法
{{#principles}}- {{.}}
{{/principles}}

## 治理模型
{{governanceModel}}

## 交付节奏
{{deliveryCadence}}

## 质量红线
{{#qualityBar}}- {{.}}
{{/qualityBar}}

## 合规对齐
{{#compliance}}- {{standard}}：{{summary}}
{{/compliance}}

---
由 SDD Kit 自动生成于 {{generatedAt}}
`

const defaultPrinciples = `# 开发基本原则

{{#principles}}## {{title}}
{{statement}}
- 影响面：{{impact}}
- 保障手段：{{practices}}

{{/principles}}`

const defaultReport = `# {{projectName}} 实施报告

- 更新时间：{{generatedAt}}
- 完成度：{{completedPercent}}%
- 剩余工时：{{remainingHours}} 小时

## 亮点
{{#highlights}}- {{.}}
{{/highlights}}

## 阻塞
{{#blockers}}- {{.}}
{{/blockers}}

## 标准偏差
{{#complianceDelta}}- {{standard}}：{{summary}}
{{/complianceDelta}}

## 下一步
{{#recommendations}}- {{.}}
{{/recommendations}}
`
