// internal/rag/engine/override.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	ragerrors "contractor-rag/internal/common/errors"
	"contractor-rag/internal/common/metrics"
	"contractor-rag/internal/models"
	"contractor-rag/internal/rag/calculators"
)

// SetDomainScore applies an administrator-supplied category to one
// domain, then cascades: the overall category is re-derived with the
// worst-wins rule and, only if it differs from the stored overall, a
// second write and history entry attributed to "system" follow. The
// whole read-modify-write runs under the contractor's lock so concurrent
// overrides never derive the cascade from a stale current value.
func (e *Engine) SetDomainScore(ctx context.Context, contractorID string, domain models.Domain, newCategory models.Category, reason, updatedBy string) error {
	if !domain.Valid() {
		return ragerrors.NewValidationError(fmt.Sprintf("unknown domain: %q", domain))
	}
	if !newCategory.Valid() {
		return ragerrors.NewValidationError(fmt.Sprintf("unknown category: %q", newCategory))
	}

	lock := e.contractorLock(contractorID)
	lock.Lock()
	defer lock.Unlock()

	contractor, err := e.store.GetContractor(ctx, contractorID)
	if err != nil {
		return err
	}

	oldCategory := contractor.DomainCategory(domain)
	contractor.SetDomainCategory(domain, newCategory)

	derived := calculators.DeriveOverallCategory(
		contractor.FinancialCategory,
		contractor.ComplianceCategory,
		contractor.PerformanceCategory,
		contractor.SafetyCategory,
	)
	oldOverall := contractor.OverallCategory
	overallChanged := derived.Category != oldOverall
	if overallChanged {
		contractor.OverallCategory = derived.Category
	}

	contractor.LastUpdatedAt = time.Now().UTC()
	contractor.LastUpdatedBy = updatedBy

	if err := e.store.UpdateContractorCategories(ctx, contractor); err != nil {
		return err
	}

	if e.cache != nil {
		e.cache.Invalidate(ctx, contractorID)
	}

	metrics.OverridesTotal.WithLabelValues(string(domain), string(newCategory)).Inc()

	e.logger.Info("domain category overridden", map[string]interface{}{
		"contractorId": contractorID,
		"domain":       domain,
		"oldCategory":  oldCategory,
		"newCategory":  newCategory,
		"updatedBy":    updatedBy,
		"cascaded":     overallChanged,
	})

	// The cascade entry is attempted even when the override entry's
	// retries exhaust, so the overall change is never left unaudited.
	var appendErrs []error
	entry := models.ScoreHistoryEntry{
		ID:           uuid.New().String(),
		ContractorID: contractorID,
		ScoreType:    string(domain),
		OldValue:     string(oldCategory),
		NewValue:     string(newCategory),
		Reason:       reason,
		UpdatedBy:    updatedBy,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.appendHistoryWithRetry(ctx, entry); err != nil {
		appendErrs = append(appendErrs, err)
	}

	if overallChanged {
		cascadeEntry := models.ScoreHistoryEntry{
			ID:           uuid.New().String(),
			ContractorID: contractorID,
			ScoreType:    models.ScoreTypeOverall,
			OldValue:     string(oldOverall),
			NewValue:     string(derived.Category),
			Reason:       reasonCascade,
			UpdatedBy:    systemActor,
			CreatedAt:    time.Now().UTC(),
		}
		if err := e.appendHistoryWithRetry(ctx, cascadeEntry); err != nil {
			appendErrs = append(appendErrs, err)
		}
	}

	return errors.Join(appendErrs...)
}
