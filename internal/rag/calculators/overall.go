// internal/rag/calculators/overall.go
package calculators

import "contractor-rag/internal/models"

// Category thresholds for the computed (numeric) path.
const (
	greenThreshold = 80.0
	amberThreshold = 65.0
)

// OverallResult is the tagged outcome of an overall computation, making
// explicit which of the two policies produced it.
type OverallResult struct {
	Score    float64            `json:"score,omitempty"`
	Category models.Category    `json:"category"`
	Source   models.ScoreSource `json:"source"`
}

// ComputeOverall runs the numeric path: the weight-normalized sum of the
// four domain sub-scores mapped to a category via fixed thresholds. It is
// used when recomputing a contractor's full rating from raw data.
func ComputeOverall(performance, financial, compliance, safety float64, weights models.RAGWeights) (OverallResult, error) {
	if err := weights.Validate(); err != nil {
		return OverallResult{}, err
	}

	weighted := performance*weights.Performance +
		financial*weights.Financial +
		compliance*weights.Compliance +
		safety*weights.Safety
	score := weighted / weights.Sum()

	return OverallResult{
		Score:    score,
		Category: CategoryForScore(score),
		Source:   models.ScoreSourceComputed,
	}, nil
}

// CategoryForScore maps a numeric overall score to its RAG category.
func CategoryForScore(score float64) models.Category {
	switch {
	case score >= greenThreshold:
		return models.CategoryGreen
	case score >= amberThreshold:
		return models.CategoryAmber
	default:
		return models.CategoryRed
	}
}

// DeriveOverallCategory runs the worst-wins path: red if any domain is
// red, amber if any is amber, otherwise green. It never consults the
// numeric formula; the two policies produce independently auditable
// results.
func DeriveOverallCategory(financial, compliance, performance, safety models.Category) OverallResult {
	categories := []models.Category{financial, compliance, performance, safety}

	worst := models.CategoryGreen
	for _, c := range categories {
		switch c {
		case models.CategoryRed:
			worst = models.CategoryRed
		case models.CategoryAmber:
			if worst != models.CategoryRed {
				worst = models.CategoryAmber
			}
		}
	}

	return OverallResult{
		Category: worst,
		Source:   models.ScoreSourceOverride,
	}
}
