// internal/rag/engine/engine.go

// Package engine orchestrates scoring passes: it fetches raw data,
// invokes the calculators, persists results, maintains the audit
// history and answers ranking queries.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	ragerrors "contractor-rag/internal/common/errors"
	"contractor-rag/internal/common/logger"
	"contractor-rag/internal/common/metrics"
	"contractor-rag/internal/models"
	"contractor-rag/internal/rag/calculators"
	"contractor-rag/internal/rag/store"
)

// reasons recorded on history entries, one per computation path.
const (
	reasonRecalculated = "Recalculated from raw operational data"
	reasonCascade      = "Automatically recalculated based on individual scores"
	systemActor        = "system"
)

type Engine struct {
	config *Config
	store  store.Store
	cache  *store.ScoreCache // optional
	logger logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a scoring engine. cache may be nil.
func New(config *Config, st store.Store, cache *store.ScoreCache, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		store:  st,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "rag-engine"}),
		locks:  make(map[string]*sync.Mutex),
	}
}

// contractorLock returns the mutex serializing read-modify-write
// sequences for one contractor. Different contractors never contend.
func (e *Engine) contractorLock(contractorID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[contractorID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[contractorID] = l
	}
	return l
}

// CalculateRAGScore runs one scoring pass for a contractor and returns
// the result without persisting it.
func (e *Engine) CalculateRAGScore(ctx context.Context, contractorID string) (*models.RAGScoreComponents, error) {
	if e.cache != nil {
		if cached := e.cache.Get(ctx, contractorID); cached != nil {
			// A cached entry may outlive the contractor. The existence
			// check keeps the unknown-contractor contract; only the feed
			// reads and calculators are skipped.
			if _, err := e.store.GetContractor(ctx, contractorID); err != nil {
				e.cache.Invalidate(ctx, contractorID)
				return nil, err
			}
			return cached, nil
		}
	}

	components, err := e.computeScore(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(ctx, components)
	}

	return components, nil
}

// computeScore always recomputes from raw data. A malformed or
// unavailable feed degrades that domain to its neutral default instead
// of aborting the pass.
func (e *Engine) computeScore(ctx context.Context, contractorID string) (*models.RAGScoreComponents, error) {
	start := time.Now()

	if _, err := e.store.GetContractor(ctx, contractorID); err != nil {
		metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	teams, err := e.store.ListTeams(ctx, contractorID)
	if err != nil {
		if ctx.Err() != nil {
			metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
			return nil, ctx.Err()
		}
		e.logger.Warn("team feed unavailable, scoring without roster", map[string]interface{}{
			"contractorId": contractorID,
			"error":        err.Error(),
		})
		metrics.UpstreamFallbacksTotal.WithLabelValues("teams").Inc()
		teams = nil
	}

	now := time.Now().UTC()

	performance, err := e.domainResult(ctx, contractorID, "projects", func() (calculators.DomainResult, error) {
		projects, err := e.store.ListProjects(ctx, contractorID)
		if err != nil {
			return calculators.DomainResult{}, err
		}
		return calculators.PerformanceScore(projects), nil
	})
	if err != nil {
		metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	financial, err := e.domainResult(ctx, contractorID, "financials", func() (calculators.DomainResult, error) {
		record, err := e.store.GetFinancialRecord(ctx, contractorID)
		if err != nil {
			return calculators.DomainResult{}, err
		}
		return calculators.FinancialScore(record), nil
	})
	if err != nil {
		metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	compliance, err := e.domainResult(ctx, contractorID, "documents", func() (calculators.DomainResult, error) {
		docs, err := e.store.ListDocuments(ctx, contractorID)
		if err != nil {
			return calculators.DomainResult{}, err
		}
		return calculators.ComplianceScore(docs, now), nil
	})
	if err != nil {
		metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	safety, err := e.domainResult(ctx, contractorID, "incidents", func() (calculators.DomainResult, error) {
		incidents, err := e.store.ListIncidents(ctx, contractorID)
		if err != nil {
			return calculators.DomainResult{}, err
		}
		return calculators.SafetyScore(incidents, teams, now), nil
	})
	if err != nil {
		metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	overall, err := calculators.ComputeOverall(
		performance.Score, financial.Score, compliance.Score, safety.Score,
		e.config.Weights,
	)
	if err != nil {
		metrics.ScoringPassesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	components := &models.RAGScoreComponents{
		ContractorID:     contractorID,
		PerformanceScore: performance.Score,
		FinancialScore:   financial.Score,
		ComplianceScore:  compliance.Score,
		SafetyScore:      safety.Score,
		OverallScore:     overall.Score,
		OverallCategory:  overall.Category,
		Breakdown: map[models.Domain]map[string]float64{
			models.DomainPerformance: performance.Breakdown,
			models.DomainFinancial:   financial.Breakdown,
			models.DomainCompliance:  compliance.Breakdown,
			models.DomainSafety:      safety.Breakdown,
		},
		Source:       models.ScoreSourceComputed,
		CalculatedAt: now,
	}

	metrics.ScoringPassesTotal.WithLabelValues("success").Inc()
	metrics.ScoringPassDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug("scoring pass complete", map[string]interface{}{
		"contractorId": contractorID,
		"overallScore": overall.Score,
		"category":     overall.Category,
	})

	return components, nil
}

// domainResult runs one calculator, degrading feed failures to the
// neutral fallback so a single bad feed cannot abort the whole pass.
// A feed failure caused by context expiry is not a data gap: it is
// propagated so the caller reports a timeout instead of neutral scores.
func (e *Engine) domainResult(ctx context.Context, contractorID, feed string, calc func() (calculators.DomainResult, error)) (calculators.DomainResult, error) {
	result, err := calc()
	if err != nil {
		if ctx.Err() != nil {
			return calculators.DomainResult{}, ctx.Err()
		}
		e.logger.Warn("raw data feed failed, using neutral default", map[string]interface{}{
			"contractorId": contractorID,
			"feed":         feed,
			"error":        err.Error(),
		})
		metrics.UpstreamFallbacksTotal.WithLabelValues(feed).Inc()
		return calculators.UpstreamFallback(), nil
	}
	return result, nil
}

// GetContractorRAGScores scores many contractors concurrently. One
// contractor's failure or slow I/O never blocks the others; failed ids
// are reported alongside the partial results.
func (e *Engine) GetContractorRAGScores(ctx context.Context, contractorIDs []string) (map[string]*models.RAGScoreComponents, []models.BulkFailure) {
	results := make(map[string]*models.RAGScoreComponents, len(contractorIDs))
	var failures []models.BulkFailure
	var mu sync.Mutex

	sem := make(chan struct{}, e.config.BatchConcurrency)
	var wg sync.WaitGroup

	for _, id := range contractorIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(contractorID string) {
			defer wg.Done()
			defer func() { <-sem }()

			components, err := e.scoreWithTimeout(ctx, contractorID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.BatchFailuresTotal.WithLabelValues("get_scores").Inc()
				failures = append(failures, models.BulkFailure{
					ContractorID: contractorID,
					Error:        err.Error(),
				})
				return
			}
			results[contractorID] = components
		}(id)
	}

	wg.Wait()
	return results, failures
}

// scoreWithTimeout applies the configured per-contractor budget. A
// timed-out contractor is a batch failure, never retried automatically.
func (e *Engine) scoreWithTimeout(ctx context.Context, contractorID string) (*models.RAGScoreComponents, error) {
	if e.config.ContractorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ContractorTimeout)
		defer cancel()
	}

	components, err := e.CalculateRAGScore(ctx, contractorID)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ragerrors.NewScoreTimeoutError(contractorID)
	}
	return components, err
}

// GetRankedContractors orders all eligible contractors by numeric
// overall score, descending, ties broken by contractor id for
// determinism, truncated to limit.
func (e *Engine) GetRankedContractors(ctx context.Context, limit int) ([]models.RankedContractor, error) {
	if limit <= 0 {
		limit = e.config.RankingLimit
	}

	contractors, err := e.store.ListContractors(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(contractors))
	names := make(map[string]string, len(contractors))
	for _, c := range contractors {
		ids = append(ids, c.ID)
		names[c.ID] = c.Name
	}

	scores, failures := e.GetContractorRAGScores(ctx, ids)
	for _, f := range failures {
		e.logger.Warn("contractor excluded from ranking", map[string]interface{}{
			"contractorId": f.ContractorID,
			"error":        f.Error,
		})
	}

	ranked := make([]models.RankedContractor, 0, len(scores))
	for id, components := range scores {
		ranked = append(ranked, models.RankedContractor{
			ContractorID:    id,
			Name:            names[id],
			OverallScore:    components.OverallScore,
			OverallCategory: components.OverallCategory,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		return ranked[i].ContractorID < ranked[j].ContractorID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked, nil
}

// UpdateContractorRAGScore persists a computed result: it overwrites the
// contractor's category fields and appends one history entry per changed
// domain, plus one for overall if it changed.
func (e *Engine) UpdateContractorRAGScore(ctx context.Context, contractorID string, components *models.RAGScoreComponents) error {
	lock := e.contractorLock(contractorID)
	lock.Lock()
	defer lock.Unlock()

	contractor, err := e.store.GetContractor(ctx, contractorID)
	if err != nil {
		return err
	}

	type change struct {
		scoreType string
		oldValue  string
		newValue  string
	}
	var changes []change

	for _, domain := range models.Domains {
		newCategory := calculators.CategoryForScore(components.DomainScore(domain))
		if old := contractor.DomainCategory(domain); old != newCategory {
			changes = append(changes, change{string(domain), string(old), string(newCategory)})
			contractor.SetDomainCategory(domain, newCategory)
		}
	}

	if contractor.OverallCategory != components.OverallCategory {
		changes = append(changes, change{
			models.ScoreTypeOverall,
			string(contractor.OverallCategory),
			string(components.OverallCategory),
		})
		contractor.OverallCategory = components.OverallCategory
	}

	if len(changes) == 0 {
		return nil
	}

	contractor.LastUpdatedAt = time.Now().UTC()
	contractor.LastUpdatedBy = systemActor

	if err := e.store.UpdateContractorCategories(ctx, contractor); err != nil {
		return err
	}

	if e.cache != nil {
		e.cache.Invalidate(ctx, contractorID)
	}

	// Every changed field gets its audit attempt even when an earlier
	// append exhausted its retries; the failures surface together.
	var appendErrs []error
	for _, ch := range changes {
		entry := models.ScoreHistoryEntry{
			ID:           uuid.New().String(),
			ContractorID: contractorID,
			ScoreType:    ch.scoreType,
			OldValue:     ch.oldValue,
			NewValue:     ch.newValue,
			Reason:       reasonRecalculated,
			UpdatedBy:    systemActor,
			CreatedAt:    time.Now().UTC(),
		}
		if err := e.appendHistoryWithRetry(ctx, entry); err != nil {
			appendErrs = append(appendErrs, err)
		}
	}

	return errors.Join(appendErrs...)
}

// appendHistoryWithRetry retries a failed history append with bounded
// backoff. The audit trail is best-effort-but-required: exhaustion is
// surfaced as a distinct warning without rolling back the category write.
func (e *Engine) appendHistoryWithRetry(ctx context.Context, entry models.ScoreHistoryEntry) error {
	var err error
	delay := 100 * time.Millisecond

	for attempt := 0; attempt <= e.config.HistoryRetries; attempt++ {
		err = e.store.AppendHistory(ctx, entry)
		if err == nil {
			return nil
		}
		if attempt < e.config.HistoryRetries {
			e.logger.Warn("history append failed, retrying", map[string]interface{}{
				"contractorId": entry.ContractorID,
				"scoreType":    entry.ScoreType,
				"attempt":      attempt + 1,
				"error":        err.Error(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	metrics.HistoryRetriesExhausted.Inc()
	e.logger.Error("history append abandoned after retries", map[string]interface{}{
		"contractorId": entry.ContractorID,
		"scoreType":    entry.ScoreType,
		"error":        err.Error(),
	})
	return ragerrors.NewHistoryAppendFailedError(entry.ContractorID, err)
}

// BulkUpdateRAGScores recomputes and persists ratings for each id. One
// contractor's failure never stops the batch; the report distinguishes
// succeeded from failed ids.
func (e *Engine) BulkUpdateRAGScores(ctx context.Context, contractorIDs []string) *models.BulkUpdateReport {
	report := &models.BulkUpdateReport{
		Succeeded: []string{},
		Failed:    []models.BulkFailure{},
	}
	var mu sync.Mutex

	sem := make(chan struct{}, e.config.BatchConcurrency)
	var wg sync.WaitGroup

	for _, id := range contractorIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(contractorID string) {
			defer wg.Done()
			defer func() { <-sem }()

			err := e.recomputeAndPersist(ctx, contractorID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.BatchFailuresTotal.WithLabelValues("bulk_update").Inc()
				report.Failed = append(report.Failed, models.BulkFailure{
					ContractorID: contractorID,
					Error:        err.Error(),
				})
				return
			}
			report.Succeeded = append(report.Succeeded, contractorID)
		}(id)
	}

	wg.Wait()

	sort.Strings(report.Succeeded)
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].ContractorID < report.Failed[j].ContractorID
	})

	return report
}

func (e *Engine) recomputeAndPersist(ctx context.Context, contractorID string) error {
	if e.config.ContractorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ContractorTimeout)
		defer cancel()
	}

	components, err := e.computeScore(ctx, contractorID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ragerrors.NewScoreTimeoutError(contractorID)
		}
		return err
	}

	return e.UpdateContractorRAGScore(ctx, contractorID, components)
}

// ListHistory exposes the audit trail so collaborators can render it.
func (e *Engine) ListHistory(ctx context.Context, contractorID string, limit int) ([]models.ScoreHistoryEntry, error) {
	return e.store.ListHistory(ctx, contractorID, limit)
}
