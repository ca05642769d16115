// internal/models/score.go
package models

import (
	"fmt"
	"time"
)

// ScoreSource tags which computation path produced a rating.
type ScoreSource string

const (
	ScoreSourceComputed ScoreSource = "computed"
	ScoreSourceOverride ScoreSource = "override"
)

// RAGScoreComponents holds everything produced by one scoring pass.
// It is returned and logged but never persisted as its own entity.
type RAGScoreComponents struct {
	ContractorID     string                        `json:"contractorId"`
	PerformanceScore float64                       `json:"performanceScore"`
	FinancialScore   float64                       `json:"financialScore"`
	ComplianceScore  float64                       `json:"complianceScore"`
	SafetyScore      float64                       `json:"safetyScore"`
	OverallScore     float64                       `json:"overallScore"`
	OverallCategory  Category                      `json:"overallCategory"`
	Breakdown        map[Domain]map[string]float64 `json:"breakdown"`
	Source           ScoreSource                   `json:"source"`
	CalculatedAt     time.Time                     `json:"calculatedAt"`
}

// DomainScore returns the sub-score for one dimension.
func (c *RAGScoreComponents) DomainScore(d Domain) float64 {
	switch d {
	case DomainFinancial:
		return c.FinancialScore
	case DomainCompliance:
		return c.ComplianceScore
	case DomainPerformance:
		return c.PerformanceScore
	case DomainSafety:
		return c.SafetyScore
	}
	return 0
}

// RAGWeights is the immutable weighting policy for the overall calculator.
// Weights need not sum to 1; the calculator normalizes.
type RAGWeights struct {
	Performance float64 `json:"performance" mapstructure:"performance"`
	Financial   float64 `json:"financial" mapstructure:"financial"`
	Compliance  float64 `json:"compliance" mapstructure:"compliance"`
	Safety      float64 `json:"safety" mapstructure:"safety"`
}

// DefaultRAGWeights returns the product-default weighting policy.
func DefaultRAGWeights() RAGWeights {
	return RAGWeights{
		Performance: 0.30,
		Financial:   0.25,
		Compliance:  0.25,
		Safety:      0.20,
	}
}

// Sum returns the total weight mass.
func (w RAGWeights) Sum() float64 {
	return w.Performance + w.Financial + w.Compliance + w.Safety
}

// Validate checks that no weight is negative and at least one is non-zero.
func (w RAGWeights) Validate() error {
	for _, v := range []float64{w.Performance, w.Financial, w.Compliance, w.Safety} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	if w.Sum() == 0 {
		return fmt.Errorf("at least one weight must be non-zero")
	}
	return nil
}

// RankedContractor is one row of a ranking query result.
type RankedContractor struct {
	Rank            int      `json:"rank"`
	ContractorID    string   `json:"contractorId"`
	Name            string   `json:"name"`
	OverallScore    float64  `json:"overallScore"`
	OverallCategory Category `json:"overallCategory"`
}

// BulkFailure records one contractor that could not be scored in a batch.
type BulkFailure struct {
	ContractorID string `json:"contractorId"`
	Error        string `json:"error"`
}

// BulkUpdateReport is the structured partial-success result of a batch
// recompute. Partial completion is a normal outcome, not an error state.
type BulkUpdateReport struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}
