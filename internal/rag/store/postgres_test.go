// internal/rag/store/postgres_test.go
package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ragerrors "contractor-rag/internal/common/errors"
	"contractor-rag/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

var contractorColumns = []string{
	"id", "name", "eligible",
	"overall_category", "financial_category", "compliance_category",
	"performance_category", "safety_category",
	"last_updated_at", "last_updated_by",
}

// ==========================
// Contractor Tests
// ==========================

func TestGetContractor(t *testing.T) {
	store, mock := setupMockDB(t)
	updatedAt := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, name, eligible").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(contractorColumns).
			AddRow("c-1", "Northline Fiber", true,
				"green", "green", "amber", "green", "green",
				updatedAt, "system"))

	c, err := store.GetContractor(context.Background(), "c-1")
	require.NoError(t, err)

	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, "Northline Fiber", c.Name)
	assert.True(t, c.Eligible)
	assert.Equal(t, models.CategoryAmber, c.ComplianceCategory)
	assert.Equal(t, updatedAt, c.LastUpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContractor_NotFound(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT id, name, eligible").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetContractor(context.Background(), "ghost")
	assert.True(t, ragerrors.IsNotFound(err))
}

func TestListContractors_OnlyEligible(t *testing.T) {
	store, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("WHERE eligible = true").
		WillReturnRows(sqlmock.NewRows(contractorColumns).
			AddRow("c-1", "Northline Fiber", true,
				"green", "green", "green", "green", "green", now, "system").
			AddRow("c-2", "Summit Cabling", true,
				"amber", "amber", "green", "green", "green", now, "system"))

	contractors, err := store.ListContractors(context.Background())
	require.NoError(t, err)

	require.Len(t, contractors, 2)
	assert.Equal(t, "c-1", contractors[0].ID)
	assert.Equal(t, "c-2", contractors[1].ID)
}

func TestUpdateContractorCategories(t *testing.T) {
	store, mock := setupMockDB(t)

	c := &models.Contractor{
		ID:              "c-1",
		OverallCategory: models.CategoryAmber,
		LastUpdatedBy:   "system",
	}

	mock.ExpectExec("UPDATE contractors").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.UpdateContractorCategories(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContractorCategories_UnknownContractor(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec("UPDATE contractors").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateContractorCategories(context.Background(), &models.Contractor{ID: "ghost"})
	assert.True(t, ragerrors.IsNotFound(err))
}

// ==========================
// Raw Feed Tests
// ==========================

func TestListProjects_DecodesPayload(t *testing.T) {
	store, mock := setupMockDB(t)
	completedAt := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	payload := []byte(`{"id":"p-1","status":"completed","onTime":true,"qualityRating":4.5}`)
	mock.ExpectQuery("FROM contractor_projects").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "completed_at"}).
			AddRow(payload, completedAt))

	projects, err := store.ListProjects(context.Background(), "c-1")
	require.NoError(t, err)

	require.Len(t, projects, 1)
	assert.Equal(t, "p-1", projects[0].ID)
	assert.Equal(t, "c-1", projects[0].ContractorID)
	assert.Equal(t, models.ProjectCompleted, projects[0].Status)
	assert.True(t, projects[0].OnTime)
	assert.Equal(t, 4.5, projects[0].QualityRating)
	assert.Equal(t, completedAt, projects[0].CompletedAt)
}

func TestListProjects_MalformedPayloadIsUpstreamError(t *testing.T) {
	store, mock := setupMockDB(t)

	// status fails the enum check.
	payload := []byte(`{"id":"p-1","status":"abandoned"}`)
	mock.ExpectQuery("FROM contractor_projects").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "completed_at"}).
			AddRow(payload, time.Now()))

	_, err := store.ListProjects(context.Background(), "c-1")
	assert.Equal(t, ragerrors.ErrCodeUpstreamDataError, ragerrors.CodeOf(err))
}

func TestGetFinancialRecord(t *testing.T) {
	store, mock := setupMockDB(t)

	payload := []byte(`{"creditScore":720,"paymentDelays":1,"revenueTrend":"stable","insuranceValid":true}`)
	mock.ExpectQuery("FROM contractor_financials").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	record, err := store.GetFinancialRecord(context.Background(), "c-1")
	require.NoError(t, err)

	require.NotNil(t, record)
	assert.Equal(t, 720, record.CreditScore)
	assert.Equal(t, "stable", record.RevenueTrend)
	assert.True(t, record.InsuranceValid)
}

func TestGetFinancialRecord_NoSnapshotIsNotAnError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("FROM contractor_financials").
		WithArgs("c-1").
		WillReturnError(sql.ErrNoRows)

	record, err := store.GetFinancialRecord(context.Background(), "c-1")
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestListDocuments(t *testing.T) {
	store, mock := setupMockDB(t)
	expiresAt := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	payload := []byte(`{"id":"d-1","documentType":"insurance","status":"valid"}`)
	mock.ExpectQuery("FROM contractor_documents").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "expires_at"}).
			AddRow(payload, expiresAt))

	docs, err := store.ListDocuments(context.Background(), "c-1")
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, models.DocumentValid, docs[0].Status)
	assert.Equal(t, expiresAt, docs[0].ExpiresAt)
}

func TestListIncidents_MalformedSeverityIsUpstreamError(t *testing.T) {
	store, mock := setupMockDB(t)

	payload := []byte(`{"id":"i-1","severity":"catastrophic"}`)
	mock.ExpectQuery("FROM contractor_safety_incidents").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "occurred_at"}).
			AddRow(payload, time.Now()))

	_, err := store.ListIncidents(context.Background(), "c-1")
	assert.Equal(t, ragerrors.ErrCodeUpstreamDataError, ragerrors.CodeOf(err))
}

// ==========================
// History Tests
// ==========================

func TestAppendHistory(t *testing.T) {
	store, mock := setupMockDB(t)

	entry := models.ScoreHistoryEntry{
		ID:           "h-1",
		ContractorID: "c-1",
		ScoreType:    "compliance",
		OldValue:     "green",
		NewValue:     "red",
		Reason:       "Failed audit",
		UpdatedBy:    "ops-admin",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO score_history").
		WithArgs(entry.ID, entry.ContractorID, entry.ScoreType,
			entry.OldValue, entry.NewValue, entry.Reason,
			entry.UpdatedBy, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.AppendHistory(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHistory_DefaultsLimit(t *testing.T) {
	store, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM score_history").
		WithArgs("c-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "contractor_id", "score_type", "old_value", "new_value",
			"reason", "updated_by", "created_at",
		}).AddRow("h-1", "c-1", "overall", "green", "amber", "r", "system", now))

	entries, err := store.ListHistory(context.Background(), "c-1", 0)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "overall", entries[0].ScoreType)
}

// ==========================
// Feed Schema Tests
// ==========================

func TestValidateFeedPayload(t *testing.T) {
	tests := []struct {
		name    string
		feed    string
		payload string
		wantErr bool
	}{
		{"valid project", "projects", `{"id":"p","status":"active"}`, false},
		{"project missing status", "projects", `{"id":"p"}`, true},
		{"quality rating out of range", "projects", `{"id":"p","status":"completed","qualityRating":9}`, true},
		{"valid financial", "financials", `{"creditScore":650}`, false},
		{"credit score out of range", "financials", `{"creditScore":9000}`, true},
		{"valid incident", "incidents", `{"id":"i","severity":"minor"}`, false},
		{"unknown feed", "weather", `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFeedPayload(tt.feed, []byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
