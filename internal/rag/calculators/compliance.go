// internal/rag/calculators/compliance.go
package calculators

import (
	"time"

	"contractor-rag/internal/models"
)

// expiryWarningWindow flags documents that are still valid but lapse soon.
const expiryWarningWindow = 30 * 24 * time.Hour

// ComplianceScore (the reliability dimension) reduces a contractor's
// document/compliance status to a 0-100 sub-score. The validity ratio
// drives the score; expired documents penalize harder than missing ones,
// and soon-to-expire documents shave a warning factor.
func ComplianceScore(docs []models.DocumentRecord, now time.Time) DomainResult {
	if len(docs) == 0 {
		return neutralResult()
	}

	valid := 0
	expired := 0
	missing := 0
	expiringSoon := 0

	for _, d := range docs {
		switch d.Status {
		case models.DocumentValid:
			valid++
			if !d.ExpiresAt.IsZero() && d.ExpiresAt.Sub(now) < expiryWarningWindow {
				expiringSoon++
			}
		case models.DocumentExpired:
			expired++
		case models.DocumentMissing:
			missing++
		}
	}

	validityRatio := float64(valid) / float64(len(docs)) * 100
	expiredPenalty := float64(expired) * 10
	missingPenalty := float64(missing) * 6
	warningPenalty := float64(expiringSoon) * 3

	score := validityRatio - expiredPenalty - missingPenalty - warningPenalty

	return DomainResult{
		Score: clamp(score, 0, 100),
		Breakdown: map[string]float64{
			"dataAvailable": 1,
			"validityRatio": validityRatio,
			"expiredCount":  float64(expired),
			"missingCount":  float64(missing),
			"expiringSoon":  float64(expiringSoon),
			"documentCount": float64(len(docs)),
		},
	}
}
