// internal/models/contractor.go
package models

import "time"

// Category is the three-level RAG risk indicator.
type Category string

const (
	CategoryRed   Category = "red"
	CategoryAmber Category = "amber"
	CategoryGreen Category = "green"
)

// Valid reports whether c is one of the three RAG values.
func (c Category) Valid() bool {
	switch c {
	case CategoryRed, CategoryAmber, CategoryGreen:
		return true
	}
	return false
}

// Domain is one of the four independent scoring dimensions.
type Domain string

const (
	DomainFinancial   Domain = "financial"
	DomainCompliance  Domain = "compliance"
	DomainPerformance Domain = "performance"
	DomainSafety      Domain = "safety"
)

// Domains lists the four scoring dimensions in persistence order.
var Domains = []Domain{DomainFinancial, DomainCompliance, DomainPerformance, DomainSafety}

// Valid reports whether d names a known scoring dimension.
func (d Domain) Valid() bool {
	switch d {
	case DomainFinancial, DomainCompliance, DomainPerformance, DomainSafety:
		return true
	}
	return false
}

// ScoreTypeOverall is the history score type for the composite rating.
const ScoreTypeOverall = "overall"

type SkillLevel string

const (
	SkillJunior       SkillLevel = "junior"
	SkillIntermediate SkillLevel = "intermediate"
	SkillSenior       SkillLevel = "senior"
	SkillExpert       SkillLevel = "expert"
)

type Contractor struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Eligible            bool      `json:"eligible"`
	OverallCategory     Category  `json:"overallCategory"`
	FinancialCategory   Category  `json:"financialCategory"`
	ComplianceCategory  Category  `json:"complianceCategory"`
	PerformanceCategory Category  `json:"performanceCategory"`
	SafetyCategory      Category  `json:"safetyCategory"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy       string    `json:"lastUpdatedBy"`
}

// DomainCategory returns the stored category for one scoring dimension.
func (c *Contractor) DomainCategory(d Domain) Category {
	switch d {
	case DomainFinancial:
		return c.FinancialCategory
	case DomainCompliance:
		return c.ComplianceCategory
	case DomainPerformance:
		return c.PerformanceCategory
	case DomainSafety:
		return c.SafetyCategory
	}
	return ""
}

// SetDomainCategory overwrites the stored category for one scoring dimension.
func (c *Contractor) SetDomainCategory(d Domain, cat Category) {
	switch d {
	case DomainFinancial:
		c.FinancialCategory = cat
	case DomainCompliance:
		c.ComplianceCategory = cat
	case DomainPerformance:
		c.PerformanceCategory = cat
	case DomainSafety:
		c.SafetyCategory = cat
	}
}

// ContractorTeam is a read-only roster snapshot for one scoring pass.
type ContractorTeam struct {
	ID                  string     `json:"id"`
	ContractorID        string     `json:"contractorId"`
	TeamType            string     `json:"teamType"` // installation, maintenance, survey, testing, splicing
	SkillLevel          SkillLevel `json:"skillLevel"`
	Specialization      string     `json:"specialization"`
	MemberCount         int        `json:"memberCount"`
	CapacityUtilization float64    `json:"capacityUtilization"`
}

// ScoreHistoryEntry is an append-only audit record. The engine never
// mutates or deletes entries once written.
type ScoreHistoryEntry struct {
	ID           string    `json:"id"`
	ContractorID string    `json:"contractorId"`
	ScoreType    string    `json:"scoreType"` // one of the four domains or "overall"
	OldValue     string    `json:"oldValue"`
	NewValue     string    `json:"newValue"`
	Reason       string    `json:"reason"`
	UpdatedBy    string    `json:"updatedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
