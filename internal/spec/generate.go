package spec

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/HendryAvila/sdd-kit/internal/compliance"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// Heuristics for derived risk grading. The NFR pattern keeps its
// redundant `99\.9` alternation on purpose — persisted specifications
// were graded with it and regrading must stay stable.
var (
	reHighRiskNFR      = regexp.MustCompile(`(?i)99|99\.9|安全`)
	reLikelyConstraint = regexp.MustCompile(`(?i)legacy|external|dependency`)
	reCostlyConstraint = regexp.MustCompile(`(?i)security|compliance|finance`)
)

// longAttributeRunes is the attribute length above which an NFR without
// high-risk markers is graded medium instead of low.
const longAttributeRunes = 8

// Generate builds a Specification from intake data. Pure except for the
// clock and generated risk ids; persistence is the caller's concern.
func Generate(input Input) Specification {
	ctx := complianceContext(input)
	findings := compliance.Evaluate(input.ComplianceTargets, ctx)

	themes := buildFunctionalThemes(input.PrimaryModules, input.Requirements)
	matrix := buildNonFunctionalMatrix(input.NonFunctionalRequirements)

	constraints := input.Constraints
	if constraints == nil {
		constraints = []string{}
	}

	successCriteria := input.SuccessCriteria
	if len(successCriteria) == 0 {
		successCriteria = []string{"建立端到端可观测链路", "实现首个可用 MVP"}
	}

	modules := strings.Join(input.PrimaryModules, ", ")
	if modules == "" {
		modules = "核心模块"
	}

	return Specification{
		ProjectName: input.ProjectName,
		Domain:      input.Domain,
		ExecutiveSummary: fmt.Sprintf(
			"%s 旨在 %s，面向 %s 领域，通过 %s 提升业务驱动。",
			input.ProjectName, input.Summary, input.Domain, modules,
		),
		FunctionalThemes:    themes,
		NonFunctionalMatrix: matrix,
		Constraints:         constraints,
		SuccessCriteria:     successCriteria,
		Compliance:          findings,
		Risks:               deriveRisks(constraints, matrix),
		CreatedAt:           timeNow().UTC().Format(time.RFC3339),
	}
}

// complianceContext projects the intake onto the fields the compliance
// rules inspect.
func complianceContext(input Input) compliance.Context {
	attrs := make([]string, len(input.NonFunctionalRequirements))
	for i, nfr := range input.NonFunctionalRequirements {
		attrs[i] = nfr.Attribute
	}

	reqs := make([]compliance.RequirementText, len(input.Requirements))
	for i, req := range input.Requirements {
		reqs[i] = compliance.RequirementText{Title: req.Title, Description: req.Description}
	}

	return compliance.Context{
		BusinessDrivers:         input.BusinessDrivers,
		NonFunctionalAttributes: attrs,
		Requirements:            reqs,
	}
}

// buildFunctionalThemes produces one theme per primary module, backed by
// the requirements whose title mentions the module. Without modules, a
// single default theme claims every requirement.
func buildFunctionalThemes(modules []string, requirements []Requirement) []FunctionalTheme {
	if len(modules) == 0 {
		ids := make([]string, len(requirements))
		for i, req := range requirements {
			ids[i] = req.ID
		}
		return []FunctionalTheme{
			{
				Name:                   "核心体验",
				Description:            "围绕关键用户价值主张构建端到端体验",
				SupportingRequirements: ids,
				SuccessSignals:         []string{"实现端到端正向体验", "关键指标达到发布门槛"},
			},
		}
	}

	themes := make([]FunctionalTheme, 0, len(modules))
	for _, moduleName := range modules {
		ids := []string{}
		for _, req := range requirements {
			if strings.Contains(strings.ToLower(req.Title), strings.ToLower(moduleName)) {
				ids = append(ids, req.ID)
			}
		}
		themes = append(themes, FunctionalTheme{
			Name:                   moduleName,
			Description:            fmt.Sprintf("实现 %s 模块以支撑主要业务场景。", moduleName),
			SupportingRequirements: ids,
			SuccessSignals: []string{
				fmt.Sprintf("%s 完成端到端流转", moduleName),
				"关键关键业务指标达到预期",
			},
		})
	}
	return themes
}

// buildNonFunctionalMatrix grades each NFR input. The risk level is a
// pure function of the input's text.
func buildNonFunctionalMatrix(inputs []NonFunctionalInput) []NonFunctionalRequirement {
	matrix := make([]NonFunctionalRequirement, len(inputs))
	for i, item := range inputs {
		combined := item.Attribute + " " + item.Metric + " " + item.Target

		riskLevel := RiskLow
		switch {
		case reHighRiskNFR.MatchString(combined):
			riskLevel = RiskHigh
		case utf8.RuneCountInString(item.Attribute) > longAttributeRunes:
			riskLevel = RiskMedium
		}

		matrix[i] = NonFunctionalRequirement{
			Attribute: item.Attribute,
			Metric:    item.Metric,
			Target:    item.Target,
			Rationale: item.Rationale,
			RiskLevel: riskLevel,
		}
	}
	return matrix
}

// deriveRisks produces one risk per constraint plus one per high-risk
// NFR.
func deriveRisks(constraints []string, matrix []NonFunctionalRequirement) []RiskItem {
	risks := make([]RiskItem, 0, len(constraints))
	for _, constraint := range constraints {
		probability := RiskMedium
		if reLikelyConstraint.MatchString(constraint) {
			probability = RiskHigh
		}
		impact := RiskMedium
		if reCostlyConstraint.MatchString(constraint) {
			impact = RiskHigh
		}
		risks = append(risks, RiskItem{
			ID:             uuid.NewString(),
			Title:          constraint,
			Probability:    probability,
			Impact:         impact,
			MitigationPlan: "建立跨团队同步机制并限定风险缓解决策窗口",
		})
	}

	for _, nfr := range matrix {
		if nfr.RiskLevel != RiskHigh {
			continue
		}
		risks = append(risks, RiskItem{
			ID:             uuid.NewString(),
			Title:          fmt.Sprintf("%s 指标存在挑战", nfr.Attribute),
			Probability:    RiskMedium,
			Impact:         RiskHigh,
			MitigationPlan: fmt.Sprintf("在技术方案阶段预留 %s 相关验证实验", nfr.Attribute),
		})
	}

	return risks
}
