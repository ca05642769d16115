// internal/rag/calculators/calculators.go
package calculators

// DomainResult is one calculator's contribution to a scoring pass: a
// clamped 0-100 score plus a breakdown of named contributing factors.
// Breakdown keys are stable strings usable for audit display.
type DomainResult struct {
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// neutralScore is returned when a calculator has no raw data to work
// with. Unknown is not worst: missing data must not read as a failing
// contractor.
const neutralScore = 50.0

func neutralResult() DomainResult {
	return DomainResult{
		Score:     neutralScore,
		Breakdown: map[string]float64{"dataAvailable": 0},
	}
}

// UpstreamFallback is the result recorded when a collaborator's raw data
// feed is malformed or unavailable. The failure is captured in breakdown
// metadata rather than aborting the scoring pass.
func UpstreamFallback() DomainResult {
	return DomainResult{
		Score:     neutralScore,
		Breakdown: map[string]float64{"dataAvailable": 0, "upstreamError": 1},
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
