// Package compliance scores a project context against named delivery
// standards. Each standard is a declarative rule — base score, cap, and
// a list of weighted regex signals — so the rule set can be unit-tested
// and swapped without touching the evaluator.
package compliance

import "regexp"

// StandardID names a supported compliance standard.
type StandardID string

const (
	StandardISO25010       StandardID = "iso-25010"
	StandardOwaspASVS      StandardID = "owasp-asvs"
	StandardAgileManifesto StandardID = "agile-manifesto"
	StandardCMMIDev        StandardID = "cmmi-dev"
)

// Finding is the scored outcome of evaluating one standard against a
// project context. Findings are always recomputed whole, never patched.
type Finding struct {
	StandardID      StandardID `json:"standardId"`
	Score           int        `json:"score"`
	Summary         string     `json:"summary"`
	Gaps            []string   `json:"gaps"`
	Recommendations []string   `json:"recommendations"`
}

// RequirementText is the slice of a requirement the rules inspect.
type RequirementText struct {
	Title       string
	Description string
}

// Context carries the project inputs the rules score against.
type Context struct {
	BusinessDrivers         []string
	NonFunctionalAttributes []string
	Requirements            []RequirementText
}

// signalSource selects which part of the context a signal inspects.
type signalSource int

const (
	sourceDrivers signalSource = iota
	sourceNFRAttributes
	sourceRequirementText        // title + description per requirement
	sourceRequirementDescription // description only
)

// Signal is one weighted pattern within a rule. A nil Pattern matches
// every candidate (used for pure coverage counting).
type Signal struct {
	Source    signalSource
	Pattern   *regexp.Regexp
	Points    int  // per matching candidate, or once when Boolean
	MaxPoints int  // cap on points from this signal; 0 means uncapped
	Boolean   bool // award Points once when any candidate matches
	GapBelow  int  // emit Gap when matches < GapBelow; 0 disables
	Gap       string
}

// Rule is the full declarative description of one standard.
type Rule struct {
	Standard        StandardID
	Summary         string
	Base            int
	Cap             int
	Signals         []Signal
	Recommendations []string
}

// Evaluate scores the requested standards against the context. When no
// standards are requested, all known standards are evaluated in their
// canonical order. Unknown ids are skipped. Pure: no I/O, and findings
// do not depend on each other.
func Evaluate(requested []StandardID, ctx Context) []Finding {
	standards := requested
	if len(standards) == 0 {
		standards = DefaultStandards()
	}

	findings := make([]Finding, 0, len(standards))
	for _, id := range standards {
		rule, ok := rulesByStandard[id]
		if !ok {
			continue
		}
		findings = append(findings, evaluateRule(rule, ctx))
	}
	return findings
}

// EvaluateRule scores a single rule against the context. Exposed so the
// rule table itself is independently testable.
func evaluateRule(rule Rule, ctx Context) Finding {
	score := rule.Base
	gaps := []string{}

	for _, signal := range rule.Signals {
		matches := countMatches(signal, ctx)

		points := 0
		if signal.Boolean {
			if matches > 0 {
				points = signal.Points
			}
		} else {
			points = matches * signal.Points
			if signal.MaxPoints > 0 && points > signal.MaxPoints {
				points = signal.MaxPoints
			}
		}
		score += points

		if signal.GapBelow > 0 && matches < signal.GapBelow {
			gaps = append(gaps, signal.Gap)
		}
	}

	if score > rule.Cap {
		score = rule.Cap
	}

	return Finding{
		StandardID:      rule.Standard,
		Score:           score,
		Summary:         rule.Summary,
		Gaps:            gaps,
		Recommendations: append([]string(nil), rule.Recommendations...),
	}
}

// countMatches counts candidates from the signal's source matching its
// pattern.
func countMatches(signal Signal, ctx Context) int {
	var candidates []string
	switch signal.Source {
	case sourceDrivers:
		candidates = ctx.BusinessDrivers
	case sourceNFRAttributes:
		candidates = ctx.NonFunctionalAttributes
	case sourceRequirementText:
		for _, req := range ctx.Requirements {
			candidates = append(candidates, req.Description+req.Title)
		}
	case sourceRequirementDescription:
		for _, req := range ctx.Requirements {
			candidates = append(candidates, req.Description)
		}
	}

	count := 0
	for _, candidate := range candidates {
		if signal.Pattern == nil || signal.Pattern.MatchString(candidate) {
			count++
		}
	}
	return count
}
