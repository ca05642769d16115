// internal/rag/engine/config.go
package engine

import (
	"time"

	"contractor-rag/internal/models"
)

type Config struct {
	Weights           models.RAGWeights
	BatchConcurrency  int
	ContractorTimeout time.Duration // per-contractor budget in batch mode, 0 = none
	HistoryRetries    int
	RankingLimit      int
}

func DefaultConfig() *Config {
	return &Config{
		Weights:          models.DefaultRAGWeights(),
		BatchConcurrency: 8,
		HistoryRetries:   3,
		RankingLimit:     50,
	}
}
