// internal/models/records.go
package models

import "time"

// Raw records feeding the four domain calculators. Shapes are
// collaborator-defined; each is a named, explicitly-typed record so that
// missing data is a detectable state rather than a property-access failure.

type ProjectStatus string

const (
	ProjectCompleted ProjectStatus = "completed"
	ProjectActive    ProjectStatus = "active"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ProjectRecord is one assignment/project history row (performance feed).
type ProjectRecord struct {
	ID            string        `json:"id"`
	ContractorID  string        `json:"contractorId"`
	Status        ProjectStatus `json:"status"`
	OnTime        bool          `json:"onTime"`
	QualityRating float64       `json:"qualityRating"` // 0-5, 0 when unrated
	ContractValue float64       `json:"contractValue"`
	CompletedAt   time.Time     `json:"completedAt"`
}

// FinancialRecord is the latest financial indicator snapshot (financial feed).
type FinancialRecord struct {
	ContractorID    string  `json:"contractorId"`
	CreditScore     int     `json:"creditScore"` // 300-850, 0 when unknown
	PaymentDelays   int     `json:"paymentDelays"`
	RevenueTrend    string  `json:"revenueTrend"` // growing, stable, declining
	InsuranceValid  bool    `json:"insuranceValid"`
	BondingCapacity float64 `json:"bondingCapacity"`
}

type DocumentStatus string

const (
	DocumentValid   DocumentStatus = "valid"
	DocumentExpired DocumentStatus = "expired"
	DocumentMissing DocumentStatus = "missing"
)

// DocumentRecord is one compliance document row (compliance feed).
type DocumentRecord struct {
	ID           string         `json:"id"`
	ContractorID string         `json:"contractorId"`
	DocumentType string         `json:"documentType"`
	Status       DocumentStatus `json:"status"`
	ExpiresAt    time.Time      `json:"expiresAt"`
}

type IncidentSeverity string

const (
	SeverityMinor    IncidentSeverity = "minor"
	SeverityMajor    IncidentSeverity = "major"
	SeverityCritical IncidentSeverity = "critical"
)

// SafetyIncident is one safety incident row (safety feed).
type SafetyIncident struct {
	ID           string           `json:"id"`
	ContractorID string           `json:"contractorId"`
	Severity     IncidentSeverity `json:"severity"`
	Resolved     bool             `json:"resolved"`
	LostDays     int              `json:"lostDays"`
	OccurredAt   time.Time        `json:"occurredAt"`
}
