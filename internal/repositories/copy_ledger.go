package repositories

import (
	"context"
	"fmt"
)

// LedgerSink is a store that can take over another ledger.
type LedgerSink interface {
	ConditionalAppender
	RosterWriter
}

// CopyLedger replaces the sink's roster with the source roster and copies every
// log entry across. Entries whose (year, week, member) key already exists in the
// sink are counted as skipped, so the copy can be re-run.
func CopyLedger(ctx context.Context, from LedgerRepository, to LedgerSink) (copied, skipped int, err error) {
	roster, err := from.ReadRoster(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := to.PutMembers(ctx, roster.Members); err != nil {
		return 0, 0, err
	}

	entries, err := from.ReadLog(ctx)
	if err != nil {
		return 0, 0, err
	}
	// entries of one key share year and week, so timestamp order keeps the
	// first submission when the source holds duplicates
	for i, e := range entries {
		inserted, err := to.AppendIfAbsent(ctx, e)
		if err != nil {
			return copied, skipped, fmt.Errorf("entry %d: %w", i, err)
		}
		if inserted {
			copied++
		} else {
			skipped++
		}
	}
	return copied, skipped, nil
}
