// internal/rag/calculators/performance.go
package calculators

import "contractor-rag/internal/models"

// PerformanceScore reduces a contractor's project history to a 0-100
// sub-score. Completion rate (40%), on-time delivery (35%) and mean
// quality rating (25%) contribute.
func PerformanceScore(projects []models.ProjectRecord) DomainResult {
	if len(projects) == 0 {
		return neutralResult()
	}

	completed := 0
	cancelled := 0
	onTime := 0
	ratedQuality := 0.0
	rated := 0

	for _, p := range projects {
		switch p.Status {
		case models.ProjectCompleted:
			completed++
			if p.OnTime {
				onTime++
			}
		case models.ProjectCancelled:
			cancelled++
		}
		if p.QualityRating > 0 {
			ratedQuality += p.QualityRating
			rated++
		}
	}

	closed := completed + cancelled
	completionRate := neutralScore
	if closed > 0 {
		completionRate = float64(completed) / float64(closed) * 100
	}

	onTimeRate := neutralScore
	if completed > 0 {
		onTimeRate = float64(onTime) / float64(completed) * 100
	}

	qualityScore := neutralScore
	if rated > 0 {
		// Ratings are 0-5; scale to 0-100.
		qualityScore = ratedQuality / float64(rated) * 20
	}

	score := completionRate*0.40 + onTimeRate*0.35 + qualityScore*0.25

	return DomainResult{
		Score: clamp(score, 0, 100),
		Breakdown: map[string]float64{
			"dataAvailable":  1,
			"completionRate": completionRate,
			"onTimeRate":     onTimeRate,
			"qualityScore":   qualityScore,
			"projectCount":   float64(len(projects)),
		},
	}
}
