// internal/rag/store/store.go

// Package store defines the abstract persistence surface the engine is
// specified against: contractor reads/writes, roster and raw-record
// feeds, and the append-only history log.
package store

import (
	"context"

	"contractor-rag/internal/models"
)

// ContractorStore reads and writes contractor rating records. The engine
// never creates or deletes contractors.
type ContractorStore interface {
	GetContractor(ctx context.Context, id string) (*models.Contractor, error)
	ListContractors(ctx context.Context) ([]models.Contractor, error)
	UpdateContractorCategories(ctx context.Context, c *models.Contractor) error
}

// TeamStore lists a contractor's roster, a read-only snapshot for the
// duration of one scoring pass.
type TeamStore interface {
	ListTeams(ctx context.Context, contractorID string) ([]models.ContractorTeam, error)
}

// RecordStore supplies the raw feeds for the four domain calculators.
type RecordStore interface {
	ListProjects(ctx context.Context, contractorID string) ([]models.ProjectRecord, error)
	GetFinancialRecord(ctx context.Context, contractorID string) (*models.FinancialRecord, error)
	ListDocuments(ctx context.Context, contractorID string) ([]models.DocumentRecord, error)
	ListIncidents(ctx context.Context, contractorID string) ([]models.SafetyIncident, error)
}

// HistoryStore appends and lists audit entries. Entries are never mutated
// or deleted.
type HistoryStore interface {
	AppendHistory(ctx context.Context, entry models.ScoreHistoryEntry) error
	ListHistory(ctx context.Context, contractorID string, limit int) ([]models.ScoreHistoryEntry, error)
}

// Store is the full persistence surface consumed by the engine.
type Store interface {
	ContractorStore
	TeamStore
	RecordStore
	HistoryStore
}
