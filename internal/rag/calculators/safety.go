// internal/rag/calculators/safety.go
package calculators

import (
	"time"

	"contractor-rag/internal/models"
	"contractor-rag/internal/rag/assessment"
)

// recentIncidentWindow bounds how far back incidents weigh on the score.
const recentIncidentWindow = 365 * 24 * time.Hour

// SafetyScore (the capabilities dimension) blends the incident record
// with workforce capability signals from the team assessment. Incident
// standing contributes 55%, team readiness 25%, technical skill 20%.
func SafetyScore(incidents []models.SafetyIncident, teams []models.ContractorTeam, now time.Time) DomainResult {
	readiness := assessment.TeamReadinessScore(teams)
	technical := assessment.TechnicalSkillScore(teams)
	depth := assessment.SpecializationDepthScore(teams)

	if len(incidents) == 0 && len(teams) == 0 {
		return neutralResult()
	}

	incidentScore := incidentStanding(incidents, now)

	score := incidentScore*0.55 + readiness.Score*0.25 + technical*0.20

	return DomainResult{
		Score: clamp(score, 0, 100),
		Breakdown: map[string]float64{
			"dataAvailable":       1,
			"incidentStanding":    incidentScore,
			"teamReadiness":       readiness.Score,
			"technicalSkills":     technical,
			"specializationDepth": depth,
			"incidentCount":       float64(len(incidents)),
		},
	}
}

// incidentStanding starts from a clean 100 and deducts tiered penalties
// for incidents inside the recent window, with extra weight on unresolved
// ones.
func incidentStanding(incidents []models.SafetyIncident, now time.Time) float64 {
	score := 100.0
	for _, inc := range incidents {
		if now.Sub(inc.OccurredAt) > recentIncidentWindow {
			continue
		}
		switch inc.Severity {
		case models.SeverityCritical:
			score -= 30
		case models.SeverityMajor:
			score -= 15
		case models.SeverityMinor:
			score -= 5
		}
		if !inc.Resolved {
			score -= 10
		}
	}
	return clamp(score, 0, 100)
}
