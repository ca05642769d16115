// internal/rag/assessment/assessment.go
package assessment

import (
	"math"

	"contractor-rag/internal/models"
	"contractor-rag/internal/rag/teammetrics"
)

// A contractor with no declared teams is treated as average/unknown rather
// than zero, so missing data is not unfairly penalized.
const unknownDefault = 60.0

// skillScores maps skill levels to their fixed score contribution.
var skillScores = map[models.SkillLevel]float64{
	models.SkillJunior:       40,
	models.SkillIntermediate: 60,
	models.SkillSenior:       80,
	models.SkillExpert:       95,
}

// idealDistribution is the target skill-level mix used for balance scoring.
var idealDistribution = map[models.SkillLevel]float64{
	models.SkillJunior:       0.30,
	models.SkillIntermediate: 0.40,
	models.SkillSenior:       0.25,
	models.SkillExpert:       0.05,
}

// TechnicalSkillScore averages the fixed skill-level lookup across all
// teams. Empty roster defaults to 60.
func TechnicalSkillScore(teams []models.ContractorTeam) float64 {
	if len(teams) == 0 {
		return unknownDefault
	}
	total := 0.0
	for _, t := range teams {
		total += skillScores[t.SkillLevel]
	}
	return total / float64(len(teams))
}

// SpecializationDepthScore rewards breadth of team types with diminishing
// contribution via the cap. Empty roster defaults to 60.
func SpecializationDepthScore(teams []models.ContractorTeam) float64 {
	if len(teams) == 0 {
		return unknownDefault
	}
	types := make(map[string]bool)
	for _, t := range teams {
		types[t.TeamType] = true
	}
	return math.Min(100, float64(len(types))*15+55)
}

// BalanceResult pairs a balance score with its qualitative label.
type BalanceResult struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// CompositionBalanceScore compares the actual skill-level distribution
// against the ideal target mix. Score is 100 minus the summed absolute
// percentage deviations, floored at 0.
func CompositionBalanceScore(teams []models.ContractorTeam) BalanceResult {
	if len(teams) == 0 {
		return BalanceResult{Score: unknownDefault, Label: balanceLabel(unknownDefault)}
	}

	dist := teammetrics.SkillDistribution(teams)
	total := float64(dist.Total())
	actual := map[models.SkillLevel]float64{
		models.SkillJunior:       float64(dist.Junior) / total,
		models.SkillIntermediate: float64(dist.Intermediate) / total,
		models.SkillSenior:       float64(dist.Senior) / total,
		models.SkillExpert:       float64(dist.Expert) / total,
	}

	deviation := 0.0
	for level, ideal := range idealDistribution {
		deviation += math.Abs(actual[level] - ideal)
	}

	score := math.Max(0, 100-deviation*100)
	return BalanceResult{Score: score, Label: balanceLabel(score)}
}

func balanceLabel(score float64) string {
	switch {
	case score >= 80:
		return "well-balanced"
	case score >= 60:
		return "good"
	case score >= 40:
		return "needs improvement"
	default:
		return "significantly imbalanced"
	}
}

// ScalingPotentialScore buckets the mentor-to-mentee ratio. The optimal
// range is one mentor per 3 to 5 mentees. Empty roster defaults to 50.
func ScalingPotentialScore(teams []models.ContractorTeam) float64 {
	if len(teams) == 0 {
		return 50
	}

	dist := teammetrics.SkillDistribution(teams)
	mentors := dist.Senior + dist.Expert
	mentees := dist.Junior + dist.Intermediate

	if mentees == 0 {
		return 60
	}

	ratio := float64(mentors) / float64(mentees)
	switch {
	case ratio >= 0.2 && ratio <= 0.33:
		return 90
	case ratio >= 0.15 && ratio <= 0.5:
		return 80
	case ratio >= 0.1 && ratio <= 0.6:
		return 70
	default:
		return 60
	}
}

// ReadinessBreakdown carries the factors behind a readiness score.
type ReadinessBreakdown struct {
	SizeFactor          float64 `json:"sizeFactor"`
	TechnicalSkills     float64 `json:"technicalSkills"`
	Diversity           float64 `json:"diversity"`
	SpecializationDepth float64 `json:"specializationDepth"`
}

// ReadinessResult is the weighted readiness composite for a roster.
type ReadinessResult struct {
	Score     float64            `json:"score"`
	Breakdown ReadinessBreakdown `json:"breakdown"`
}

// Readiness weighting: size 0.20, technical 0.35, diversity 0.25, depth 0.20.
const (
	readinessSizeWeight      = 0.20
	readinessSkillWeight     = 0.35
	readinessDiversityWeight = 0.25
	readinessDepthWeight     = 0.20

	optimalTeamCountMin = 3
	optimalTeamCountMax = 8
)

// TeamReadinessScore composes size, skill, diversity and specialization
// depth into one weighted score. Zero teams is an unambiguous readiness
// failure, so the empty roster returns an all-zero breakdown with score 0
// rather than the charitable defaults used by the sub-metrics.
func TeamReadinessScore(teams []models.ContractorTeam) ReadinessResult {
	if len(teams) == 0 {
		return ReadinessResult{}
	}

	size := sizeFactor(len(teams))
	skill := TechnicalSkillScore(teams)
	diversity := teammetrics.DiversityIndex(teams)
	depth := SpecializationDepthScore(teams)

	score := size*readinessSizeWeight +
		skill*readinessSkillWeight +
		diversity*readinessDiversityWeight +
		depth*readinessDepthWeight

	return ReadinessResult{
		Score: score,
		Breakdown: ReadinessBreakdown{
			SizeFactor:          size,
			TechnicalSkills:     skill,
			Diversity:           diversity,
			SpecializationDepth: depth,
		},
	}
}

func sizeFactor(count int) float64 {
	switch {
	case count >= optimalTeamCountMin && count <= optimalTeamCountMax:
		return 100
	case count > optimalTeamCountMax:
		return math.Max(0, 100-float64(count-optimalTeamCountMax)*5)
	default:
		return float64(count) / float64(optimalTeamCountMin) * 100
	}
}

// Recommendations evaluates an ordered rule list against the roster, each
// rule appending at most one advisory string when its condition holds.
func Recommendations(teams []models.ContractorTeam) []string {
	if len(teams) == 0 {
		return []string{"Build a core team before taking on new work"}
	}

	var recs []string
	dist := teammetrics.SkillDistribution(teams)

	if len(teams) < 3 {
		recs = append(recs, "Expand the workforce: fewer than 3 teams limits delivery capacity")
	}
	if len(teams) > 12 {
		recs = append(recs, "Consider splitting the workforce into smaller operating units")
	}
	if dist.Senior+dist.Expert == 0 {
		recs = append(recs, "Add senior or expert leadership to anchor delivery quality")
	}
	if len(teams) > 5 && dist.Expert == 0 {
		recs = append(recs, "Recruit at least one expert-level specialist team")
	}
	if balance := CompositionBalanceScore(teams); balance.Score < 60 {
		recs = append(recs, "Rebalance the junior/senior mix toward the target distribution")
	}
	types := make(map[string]bool)
	for _, t := range teams {
		types[t.TeamType] = true
	}
	if len(types) < 2 && len(teams) > 2 {
		recs = append(recs, "Diversify team types to cover more work categories")
	}

	return recs
}
