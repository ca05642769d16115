// internal/rag/teammetrics/teammetrics.go
package teammetrics

import (
	"math"

	"contractor-rag/internal/models"
)

// Distribution holds team counts per skill-level bucket.
type Distribution struct {
	Junior       int `json:"junior"`
	Intermediate int `json:"intermediate"`
	Senior       int `json:"senior"`
	Expert       int `json:"expert"`
}

// Total returns the number of teams counted.
func (d Distribution) Total() int {
	return d.Junior + d.Intermediate + d.Senior + d.Expert
}

func (d Distribution) counts() []int {
	return []int{d.Junior, d.Intermediate, d.Senior, d.Expert}
}

// SkillDistribution counts teams per skill level. All four buckets default
// to 0; an empty roster never errors.
func SkillDistribution(teams []models.ContractorTeam) Distribution {
	var dist Distribution
	for _, t := range teams {
		switch t.SkillLevel {
		case models.SkillJunior:
			dist.Junior++
		case models.SkillIntermediate:
			dist.Intermediate++
		case models.SkillSenior:
			dist.Senior++
		case models.SkillExpert:
			dist.Expert++
		}
	}
	return dist
}

// maxEntropyBits is log2(4), the maximum possible entropy across the four
// skill-level buckets.
const maxEntropyBits = 2.0

// DiversityIndex computes the Shannon entropy of the skill-level
// distribution, normalized to 0-100. Empty roster yields 0. Zero-count
// buckets contribute 0 (0*log2(0) is undefined and must be skipped).
func DiversityIndex(teams []models.ContractorTeam) float64 {
	dist := SkillDistribution(teams)
	total := dist.Total()
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, count := range dist.counts() {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}

	return entropy / maxEntropyBits * 100.0
}

// Coverage reports which required specializations a roster satisfies.
type Coverage struct {
	Covered []string `json:"covered"`
	Missing []string `json:"missing"`
	Score   float64  `json:"score"`
}

// SpecializationCoverage checks a roster against a set of required
// specialization tags. Score = coverage percentage plus a bonus for
// specializations beyond the requirement, capped at 100. An empty
// requirement is fully covered.
func SpecializationCoverage(teams []models.ContractorTeam, required []string) Coverage {
	have := make(map[string]bool)
	for _, t := range teams {
		if t.Specialization != "" {
			have[t.Specialization] = true
		}
	}

	if len(required) == 0 {
		return Coverage{Covered: []string{}, Missing: []string{}, Score: 100}
	}

	covered := make([]string, 0, len(required))
	missing := make([]string, 0)
	requiredSet := make(map[string]bool, len(required))
	for _, r := range required {
		requiredSet[r] = true
		if have[r] {
			covered = append(covered, r)
		} else {
			missing = append(missing, r)
		}
	}

	extras := 0
	for s := range have {
		if !requiredSet[s] {
			extras++
		}
	}

	coverage := float64(len(covered)) / float64(len(required)) * 100.0
	bonus := float64(extras) * 5.0
	score := math.Min(coverage+bonus, 100.0)

	return Coverage{Covered: covered, Missing: missing, Score: score}
}
