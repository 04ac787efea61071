// Package spec builds a Specification aggregate from raw project intake.
//
// JSON field names are wire-compatible with the original sdd-kit tooling
// (camelCase, e.g. projectName) — adapters serialize these structs
// directly, so tags must not change.
package spec

import (
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/compliance"
)

// --- Requirement category enum ---

// Category classifies a requirement as functional or non-functional.
type Category string

const (
	CategoryFunctional    Category = "functional"
	CategoryNonFunctional Category = "non-functional"
)

// --- Risk level enum ---

// RiskLevel grades probability, impact and derived NFR risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var validRiskLevels = map[RiskLevel]bool{
	RiskLow:    true,
	RiskMedium: true,
	RiskHigh:   true,
}

// ValidateRiskLevel returns an error if the level is not recognized.
func ValidateRiskLevel(level RiskLevel) error {
	if !validRiskLevels[level] {
		return fmt.Errorf("invalid risk level %q: must be one of: low, medium, high", level)
	}
	return nil
}

// --- Intake shapes ---

// Requirement is one intake requirement. Immutable once part of a
// persisted Specification.
type Requirement struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           Category `json:"category"`
	Drivers            []string `json:"drivers"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Priority           string   `json:"priority"` // critical | high | medium | low
}

// NonFunctionalInput is the caller-supplied NFR triple. The risk level
// is derived during generation, never supplied.
type NonFunctionalInput struct {
	Attribute string `json:"attribute"`
	Metric    string `json:"metric"`
	Target    string `json:"target"`
	Rationale string `json:"rationale,omitempty"`
}

// StakeholderProfile is carried through the intake payload for wire
// compatibility; generation does not consume it.
type StakeholderProfile struct {
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Expectations    []string `json:"expectations"`
	EngagementModel string   `json:"engagementModel,omitempty"`
}

// Input is the validated intake payload for Generate.
type Input struct {
	ProjectName               string                  `json:"projectName"`
	Domain                    string                  `json:"domain"`
	Summary                   string                  `json:"summary"`
	BusinessDrivers           []string                `json:"businessDrivers"`
	Stakeholders              []StakeholderProfile    `json:"stakeholders"`
	PrimaryModules            []string                `json:"primaryModules"`
	Requirements              []Requirement           `json:"requirements"`
	NonFunctionalRequirements []NonFunctionalInput    `json:"nonFunctionalRequirements"`
	Constraints               []string                `json:"constraints,omitempty"`
	ComplianceTargets         []compliance.StandardID `json:"complianceTargets,omitempty"`
	SuccessCriteria           []string                `json:"successCriteria,omitempty"`
	DeliveryTimelineWeeks     int                     `json:"deliveryTimelineWeeks,omitempty"`
}

// --- Specification aggregate ---

// NonFunctionalRequirement is an NFR with its derived risk level.
type NonFunctionalRequirement struct {
	Attribute string    `json:"attribute"`
	Metric    string    `json:"metric"`
	Target    string    `json:"target"`
	Rationale string    `json:"rationale,omitempty"`
	RiskLevel RiskLevel `json:"riskLevel"`
}

// FunctionalTheme groups requirements under one delivery theme.
type FunctionalTheme struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	SupportingRequirements []string `json:"supportingRequirements"`
	SuccessSignals         []string `json:"successSignals"`
}

// RiskItem is a derived delivery risk.
type RiskItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Probability    RiskLevel `json:"probability"`
	Impact         RiskLevel `json:"impact"`
	MitigationPlan string    `json:"mitigationPlan"`
}

// Specification is the root output of the specify phase.
type Specification struct {
	ProjectName         string                     `json:"projectName"`
	Domain              string                     `json:"domain"`
	ExecutiveSummary    string                     `json:"executiveSummary"`
	FunctionalThemes    []FunctionalTheme          `json:"functionalThemes"`
	NonFunctionalMatrix []NonFunctionalRequirement `json:"nonFunctionalMatrix"`
	Constraints         []string                   `json:"constraints"`
	SuccessCriteria     []string                   `json:"successCriteria"`
	Compliance          []compliance.Finding       `json:"compliance"`
	Risks               []RiskItem                 `json:"risks"`
	CreatedAt           string                     `json:"createdAt"`
}
