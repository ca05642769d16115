// internal/rag/assessment/assessment_test.go
package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contractor-rag/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func roster(levels ...models.SkillLevel) []models.ContractorTeam {
	teams := make([]models.ContractorTeam, 0, len(levels))
	for i, level := range levels {
		teams = append(teams, models.ContractorTeam{
			ID:         string(rune('a' + i)),
			SkillLevel: level,
			TeamType:   "installation",
		})
	}
	return teams
}

// ==========================
// Technical Skill Tests
// ==========================

func TestTechnicalSkillScore(t *testing.T) {
	tests := []struct {
		name     string
		levels   []models.SkillLevel
		expected float64
	}{
		{"empty roster defaults to 60", nil, 60},
		{"all expert", []models.SkillLevel{models.SkillExpert, models.SkillExpert}, 95},
		{"all junior", []models.SkillLevel{models.SkillJunior}, 40},
		{
			"mixed roster averages",
			[]models.SkillLevel{models.SkillJunior, models.SkillSenior}, // (40+80)/2
			60,
		},
		{
			"two senior three junior",
			[]models.SkillLevel{
				models.SkillSenior, models.SkillSenior,
				models.SkillJunior, models.SkillJunior, models.SkillJunior,
			}, // (80*2+40*3)/5
			56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TechnicalSkillScore(roster(tt.levels...)), 0.0001)
		})
	}
}

// ==========================
// Specialization Depth Tests
// ==========================

func TestSpecializationDepthScore(t *testing.T) {
	assert.Equal(t, 60.0, SpecializationDepthScore(nil))

	oneType := roster(models.SkillSenior, models.SkillJunior)
	assert.Equal(t, 70.0, SpecializationDepthScore(oneType)) // 1*15+55

	twoTypes := []models.ContractorTeam{
		{ID: "a", TeamType: "installation", SkillLevel: models.SkillSenior},
		{ID: "b", TeamType: "maintenance", SkillLevel: models.SkillJunior},
	}
	assert.Equal(t, 85.0, SpecializationDepthScore(twoTypes)) // 2*15+55

	fourTypes := []models.ContractorTeam{
		{ID: "a", TeamType: "installation"},
		{ID: "b", TeamType: "maintenance"},
		{ID: "c", TeamType: "survey"},
		{ID: "d", TeamType: "testing"},
	}
	assert.Equal(t, 100.0, SpecializationDepthScore(fourTypes)) // capped
}

// ==========================
// Composition Balance Tests
// ==========================

func TestCompositionBalanceScore(t *testing.T) {
	tests := []struct {
		name          string
		levels        []models.SkillLevel
		expectedScore float64
		expectedLabel string
	}{
		{
			name:          "empty roster defaults to 60 good",
			levels:        nil,
			expectedScore: 60,
			expectedLabel: "good",
		},
		{
			name: "ideal mix scores 100",
			levels: func() []models.SkillLevel {
				// 6 junior, 8 intermediate, 5 senior, 1 expert over 20 teams
				// matches the 0.30/0.40/0.25/0.05 target exactly.
				var levels []models.SkillLevel
				for i := 0; i < 6; i++ {
					levels = append(levels, models.SkillJunior)
				}
				for i := 0; i < 8; i++ {
					levels = append(levels, models.SkillIntermediate)
				}
				for i := 0; i < 5; i++ {
					levels = append(levels, models.SkillSenior)
				}
				levels = append(levels, models.SkillExpert)
				return levels
			}(),
			expectedScore: 100,
			expectedLabel: "well-balanced",
		},
		{
			name:   "all junior is heavily imbalanced",
			levels: []models.SkillLevel{models.SkillJunior, models.SkillJunior},
			// deviation = |1-0.30| + 0.40 + 0.25 + 0.05 = 1.40
			expectedScore: 0,
			expectedLabel: "significantly imbalanced",
		},
		{
			name: "junior-heavy two-bucket roster penalized",
			levels: []models.SkillLevel{
				models.SkillSenior, models.SkillSenior,
				models.SkillJunior, models.SkillJunior, models.SkillJunior,
			},
			// juniors 60% vs 30%, seniors 40% vs 25%, intermediates and
			// experts absent: deviation = 0.30 + 0.40 + 0.15 + 0.05 = 0.90
			expectedScore: 10,
			expectedLabel: "significantly imbalanced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompositionBalanceScore(roster(tt.levels...))
			assert.InDelta(t, tt.expectedScore, result.Score, 0.0001)
			assert.Equal(t, tt.expectedLabel, result.Label)
		})
	}
}

// ==========================
// Scaling Potential Tests
// ==========================

func TestScalingPotentialScore(t *testing.T) {
	tests := []struct {
		name     string
		levels   []models.SkillLevel
		expected float64
	}{
		{"empty roster defaults to 50", nil, 50},
		{
			"optimal mentor ratio",
			// 1 mentor to 4 mentees, ratio 0.25
			[]models.SkillLevel{
				models.SkillSenior,
				models.SkillJunior, models.SkillJunior,
				models.SkillIntermediate, models.SkillIntermediate,
			},
			90,
		},
		{
			"acceptable ratio",
			// 1 mentor to 2 mentees, ratio 0.5
			[]models.SkillLevel{models.SkillExpert, models.SkillJunior, models.SkillJunior},
			80,
		},
		{
			"all senior no mentees falls to the default bucket",
			[]models.SkillLevel{models.SkillSenior, models.SkillExpert},
			60,
		},
		{
			"mentees without any mentor",
			[]models.SkillLevel{models.SkillJunior, models.SkillJunior},
			60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ScalingPotentialScore(roster(tt.levels...)), 0.0001)
		})
	}
}

// ==========================
// Team Readiness Tests
// ==========================

func TestTeamReadinessScore_EmptyRosterIsZero(t *testing.T) {
	result := TeamReadinessScore(nil)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, ReadinessBreakdown{}, result.Breakdown)
}

func TestTeamReadinessScore_TypicalRoster(t *testing.T) {
	// 2 senior, 3 junior: size 100, skill 56, diversity ~48.55, depth 70.
	teams := roster(
		models.SkillSenior, models.SkillSenior,
		models.SkillJunior, models.SkillJunior, models.SkillJunior,
	)

	result := TeamReadinessScore(teams)

	assert.InDelta(t, 100.0, result.Breakdown.SizeFactor, 0.0001)
	assert.InDelta(t, 56.0, result.Breakdown.TechnicalSkills, 0.0001)
	assert.InDelta(t, 48.5475, result.Breakdown.Diversity, 0.01)
	assert.InDelta(t, 70.0, result.Breakdown.SpecializationDepth, 0.0001)

	// 100*0.20 + 56*0.35 + 48.5475*0.25 + 70*0.20
	assert.InDelta(t, 65.7369, result.Score, 0.01)
}

func TestTeamReadinessScore_OversizedRosterPenalized(t *testing.T) {
	levels := make([]models.SkillLevel, 10)
	for i := range levels {
		levels[i] = models.SkillIntermediate
	}

	result := TeamReadinessScore(roster(levels...))

	// 10 teams is 2 past optimal: 100 - 2*5.
	assert.InDelta(t, 90.0, result.Breakdown.SizeFactor, 0.0001)
}

func TestTeamReadinessScore_UndersizedRosterScaled(t *testing.T) {
	result := TeamReadinessScore(roster(models.SkillSenior))
	assert.InDelta(t, 100.0/3.0, result.Breakdown.SizeFactor, 0.0001)
}

// ==========================
// Recommendation Tests
// ==========================

func TestRecommendations(t *testing.T) {
	t.Run("empty roster", func(t *testing.T) {
		recs := Recommendations(nil)
		assert.Equal(t, []string{"Build a core team before taking on new work"}, recs)
	})

	t.Run("small roster without leadership", func(t *testing.T) {
		recs := Recommendations(roster(models.SkillJunior, models.SkillJunior))

		assert.Contains(t, recs, "Expand the workforce: fewer than 3 teams limits delivery capacity")
		assert.Contains(t, recs, "Add senior or expert leadership to anchor delivery quality")
	})

	t.Run("large roster without expert", func(t *testing.T) {
		levels := make([]models.SkillLevel, 13)
		for i := range levels {
			levels[i] = models.SkillSenior
		}
		recs := Recommendations(roster(levels...))

		assert.Contains(t, recs, "Consider splitting the workforce into smaller operating units")
		assert.Contains(t, recs, "Recruit at least one expert-level specialist team")
		assert.Contains(t, recs, "Diversify team types to cover more work categories")
	})

	t.Run("healthy roster gets no advisories", func(t *testing.T) {
		teams := []models.ContractorTeam{
			{ID: "a", TeamType: "installation", SkillLevel: models.SkillJunior},
			{ID: "b", TeamType: "installation", SkillLevel: models.SkillIntermediate},
			{ID: "c", TeamType: "maintenance", SkillLevel: models.SkillIntermediate},
			{ID: "d", TeamType: "maintenance", SkillLevel: models.SkillSenior},
			{ID: "e", TeamType: "survey", SkillLevel: models.SkillExpert},
		}
		assert.Empty(t, Recommendations(teams))
	})
}
