// internal/rag/calculators/financial.go
package calculators

import "contractor-rag/internal/models"

// FinancialScore reduces a contractor's financial indicators to a 0-100
// sub-score. Tiered points: credit score (max 40), payment behaviour
// (max 30), revenue trend (max 15), insurance cover (max 15).
func FinancialScore(record *models.FinancialRecord) DomainResult {
	if record == nil {
		return neutralResult()
	}

	creditPoints := 0.0
	if record.CreditScore > 0 {
		switch {
		case record.CreditScore >= 750:
			creditPoints = 40
		case record.CreditScore >= 700:
			creditPoints = 32
		case record.CreditScore >= 650:
			creditPoints = 24
		case record.CreditScore >= 600:
			creditPoints = 16
		default:
			creditPoints = 8
		}
	} else {
		// Unknown credit history sits mid-tier rather than scoring zero.
		creditPoints = 20
	}

	paymentPoints := 0.0
	switch {
	case record.PaymentDelays == 0:
		paymentPoints = 30
	case record.PaymentDelays <= 2:
		paymentPoints = 20
	case record.PaymentDelays <= 5:
		paymentPoints = 10
	}

	trendPoints := 0.0
	switch record.RevenueTrend {
	case "growing":
		trendPoints = 15
	case "stable":
		trendPoints = 10
	case "declining":
		trendPoints = 3
	default:
		trendPoints = 7
	}

	insurancePoints := 0.0
	if record.InsuranceValid {
		insurancePoints = 15
	}

	score := creditPoints + paymentPoints + trendPoints + insurancePoints

	return DomainResult{
		Score: clamp(score, 0, 100),
		Breakdown: map[string]float64{
			"dataAvailable":   1,
			"creditStanding":  creditPoints,
			"paymentHistory":  paymentPoints,
			"revenueTrend":    trendPoints,
			"insuranceCover":  insurancePoints,
			"bondingCapacity": record.BondingCapacity,
		},
	}
}
