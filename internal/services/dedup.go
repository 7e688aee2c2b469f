package services

import (
	"context"
	"sync"

	"github.com/tropicaldog17/dashboards/internal/models"
	"github.com/tropicaldog17/dashboards/internal/repositories"
)

// Deduplicator appends a ledger entry only when no entry exists for its
// (year, week, member) key. A duplicate is skipped without error.
//
// Stores implementing repositories.ConditionalAppender do the check and the
// append atomically. For other stores the read-check-append sequence is only
// serialized within this process; two processes can still race on one key.
type Deduplicator struct {
	store repositories.LedgerRepository
	mu    sync.Mutex
}

func NewDeduplicator(store repositories.LedgerRepository) *Deduplicator {
	return &Deduplicator{store: store}
}

func (d *Deduplicator) Submit(ctx context.Context, entry *models.LogEntry) (models.SubmitOutcome, error) {
	if ca, ok := d.store.(repositories.ConditionalAppender); ok {
		inserted, err := ca.AppendIfAbsent(ctx, entry)
		if err != nil {
			return "", err
		}
		if !inserted {
			return models.SubmitSkipped, nil
		}
		return models.SubmitAccepted, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing, err := d.store.ReadLog(ctx)
	if err != nil {
		return "", err
	}
	if containsKey(existing, entry.Key()) {
		return models.SubmitSkipped, nil
	}
	if err := d.store.AppendLog(ctx, entry); err != nil {
		return "", err
	}
	return models.SubmitAccepted, nil
}

func containsKey(entries []*models.LogEntry, key models.LogKey) bool {
	for _, e := range entries {
		if e.Key() == key {
			return true
		}
	}
	return false
}
