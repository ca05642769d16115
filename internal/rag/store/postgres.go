// internal/rag/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	ragerrors "contractor-rag/internal/common/errors"
	"contractor-rag/internal/models"
)

// PostgresStore implements Store over PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetContractor(ctx context.Context, id string) (*models.Contractor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, eligible,
		       overall_category, financial_category, compliance_category,
		       performance_category, safety_category,
		       last_updated_at, last_updated_by
		FROM contractors
		WHERE id = $1`, id)

	var c models.Contractor
	err := row.Scan(
		&c.ID, &c.Name, &c.Eligible,
		&c.OverallCategory, &c.FinancialCategory, &c.ComplianceCategory,
		&c.PerformanceCategory, &c.SafetyCategory,
		&c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ragerrors.NewContractorNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *PostgresStore) ListContractors(ctx context.Context) ([]models.Contractor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, eligible,
		       overall_category, financial_category, compliance_category,
		       performance_category, safety_category,
		       last_updated_at, last_updated_by
		FROM contractors
		WHERE eligible = true
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Contractor
	for rows.Next() {
		var c models.Contractor
		err := rows.Scan(
			&c.ID, &c.Name, &c.Eligible,
			&c.OverallCategory, &c.FinancialCategory, &c.ComplianceCategory,
			&c.PerformanceCategory, &c.SafetyCategory,
			&c.LastUpdatedAt, &c.LastUpdatedBy,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}

	return results, rows.Err()
}

func (s *PostgresStore) UpdateContractorCategories(ctx context.Context, c *models.Contractor) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contractors
		SET overall_category = $2,
		    financial_category = $3,
		    compliance_category = $4,
		    performance_category = $5,
		    safety_category = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE id = $1`,
		c.ID,
		c.OverallCategory, c.FinancialCategory, c.ComplianceCategory,
		c.PerformanceCategory, c.SafetyCategory,
		c.LastUpdatedAt, c.LastUpdatedBy,
	)
	if err != nil {
		return ragerrors.NewScorePersistFailedError(err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ragerrors.NewContractorNotFoundError(c.ID)
	}

	return nil
}

func (s *PostgresStore) ListTeams(ctx context.Context, contractorID string) ([]models.ContractorTeam, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contractor_id, team_type, skill_level, specialization,
		       member_count, capacity_utilization
		FROM contractor_teams
		WHERE contractor_id = $1
		ORDER BY id`, contractorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.ContractorTeam
	for rows.Next() {
		var t models.ContractorTeam
		err := rows.Scan(
			&t.ID, &t.ContractorID, &t.TeamType, &t.SkillLevel,
			&t.Specialization, &t.MemberCount, &t.CapacityUtilization,
		)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

// Raw feeds are stored as collaborator-owned JSON payloads alongside the
// columns the engine indexes on. Each payload is schema-checked before
// decoding; a bad payload surfaces as an upstream data error for that
// feed only.

func (s *PostgresStore) ListProjects(ctx context.Context, contractorID string) ([]models.ProjectRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload, completed_at
		FROM contractor_projects
		WHERE contractor_id = $1
		ORDER BY completed_at DESC`, contractorID)
	if err != nil {
		return nil, ragerrors.NewUpstreamDataError("projects", err)
	}
	defer rows.Close()

	var projects []models.ProjectRecord
	for rows.Next() {
		var payload []byte
		var completedAt time.Time
		if err := rows.Scan(&payload, &completedAt); err != nil {
			return nil, ragerrors.NewUpstreamDataError("projects", err)
		}

		if err := validateFeedPayload("projects", payload); err != nil {
			return nil, ragerrors.NewUpstreamDataError("projects", err)
		}

		var p models.ProjectRecord
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, ragerrors.NewUpstreamDataError("projects", err)
		}
		p.ContractorID = contractorID
		p.CompletedAt = completedAt
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (s *PostgresStore) GetFinancialRecord(ctx context.Context, contractorID string) (*models.FinancialRecord, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload
		FROM contractor_financials
		WHERE contractor_id = $1`, contractorID).Scan(&payload)
	if err == sql.ErrNoRows {
		// No snapshot is the "unknown" state, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, ragerrors.NewUpstreamDataError("financials", err)
	}

	if err := validateFeedPayload("financials", payload); err != nil {
		return nil, ragerrors.NewUpstreamDataError("financials", err)
	}

	var f models.FinancialRecord
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, ragerrors.NewUpstreamDataError("financials", err)
	}
	f.ContractorID = contractorID

	return &f, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, contractorID string) ([]models.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload, expires_at
		FROM contractor_documents
		WHERE contractor_id = $1
		ORDER BY expires_at`, contractorID)
	if err != nil {
		return nil, ragerrors.NewUpstreamDataError("documents", err)
	}
	defer rows.Close()

	var docs []models.DocumentRecord
	for rows.Next() {
		var payload []byte
		var expiresAt time.Time
		if err := rows.Scan(&payload, &expiresAt); err != nil {
			return nil, ragerrors.NewUpstreamDataError("documents", err)
		}

		if err := validateFeedPayload("documents", payload); err != nil {
			return nil, ragerrors.NewUpstreamDataError("documents", err)
		}

		var d models.DocumentRecord
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, ragerrors.NewUpstreamDataError("documents", err)
		}
		d.ContractorID = contractorID
		d.ExpiresAt = expiresAt
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

func (s *PostgresStore) ListIncidents(ctx context.Context, contractorID string) ([]models.SafetyIncident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload, occurred_at
		FROM contractor_safety_incidents
		WHERE contractor_id = $1
		ORDER BY occurred_at DESC`, contractorID)
	if err != nil {
		return nil, ragerrors.NewUpstreamDataError("incidents", err)
	}
	defer rows.Close()

	var incidents []models.SafetyIncident
	for rows.Next() {
		var payload []byte
		var occurredAt time.Time
		if err := rows.Scan(&payload, &occurredAt); err != nil {
			return nil, ragerrors.NewUpstreamDataError("incidents", err)
		}

		if err := validateFeedPayload("incidents", payload); err != nil {
			return nil, ragerrors.NewUpstreamDataError("incidents", err)
		}

		var inc models.SafetyIncident
		if err := json.Unmarshal(payload, &inc); err != nil {
			return nil, ragerrors.NewUpstreamDataError("incidents", err)
		}
		inc.ContractorID = contractorID
		inc.OccurredAt = occurredAt
		incidents = append(incidents, inc)
	}

	return incidents, rows.Err()
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entry models.ScoreHistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO score_history
			(id, contractor_id, score_type, old_value, new_value, reason, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.ContractorID, entry.ScoreType,
		entry.OldValue, entry.NewValue, entry.Reason,
		entry.UpdatedBy, entry.CreatedAt,
	)
	return err
}

func (s *PostgresStore) ListHistory(ctx context.Context, contractorID string, limit int) ([]models.ScoreHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contractor_id, score_type, old_value, new_value, reason, updated_by, created_at
		FROM score_history
		WHERE contractor_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, contractorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScoreHistoryEntry
	for rows.Next() {
		var e models.ScoreHistoryEntry
		err := rows.Scan(
			&e.ID, &e.ContractorID, &e.ScoreType,
			&e.OldValue, &e.NewValue, &e.Reason,
			&e.UpdatedBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
