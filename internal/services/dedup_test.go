package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/dashboards/internal/config"
	"github.com/tropicaldog17/dashboards/internal/db"
	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
	"github.com/tropicaldog17/dashboards/internal/repositories"
)

func TestDeduplicator_SkipsSecondSubmissionForKey(t *testing.T) {
	store := &mockLedger{}
	d := NewDeduplicator(store)
	ctx := context.Background()

	out, err := d.Submit(ctx, logEntry(2022, 3, "Amy", models.ResultNegative, models.Mon))
	require.NoError(t, err)
	assert.Equal(t, models.SubmitAccepted, out)

	out, err = d.Submit(ctx, logEntry(2022, 3, "Amy", models.ResultPositive, models.Tue))
	require.NoError(t, err)
	assert.Equal(t, models.SubmitSkipped, out)

	// other weeks and other members are separate keys
	out, err = d.Submit(ctx, logEntry(2022, 4, "Amy", models.ResultNegative))
	require.NoError(t, err)
	assert.Equal(t, models.SubmitAccepted, out)
	out, err = d.Submit(ctx, logEntry(2022, 3, "Bo", models.ResultNegative))
	require.NoError(t, err)
	assert.Equal(t, models.SubmitAccepted, out)

	assert.Equal(t, 3, store.count())
	assert.Equal(t, models.ResultNegative, store.entries[0].Result)
}

func TestDeduplicator_ConcurrentSubmissionsAppendOnce(t *testing.T) {
	store := &mockLedger{}
	d := NewDeduplicator(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Submit(context.Background(), logEntry(2022, 3, "Amy", models.ResultNegative))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, store.count())
}

func TestDeduplicator_PropagatesStoreErrors(t *testing.T) {
	store := &mockLedger{readErr: errStoreDown}
	_, err := NewDeduplicator(store).Submit(context.Background(), logEntry(2022, 3, "Amy", models.ResultNegative))
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
	assert.Equal(t, 0, store.count())

	store = &mockLedger{appendErr: errStoreDown}
	_, err = NewDeduplicator(store).Submit(context.Background(), logEntry(2022, 3, "Amy", models.ResultNegative))
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestDeduplicator_UsesConditionalAppend(t *testing.T) {
	database, err := db.Connect(&db.Config{Driver: config.BackendSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	repo := repositories.NewSQLLedgerRepository(database)
	require.NoError(t, repo.Migrate(context.Background()))

	d := NewDeduplicator(repo)
	ctx := context.Background()
	entry := logEntry(2022, 3, "Amy", models.ResultNegative, models.Mon)
	entry.TestDate = time.Date(2022, 1, 18, 0, 0, 0, 0, time.UTC)

	out, err := d.Submit(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, models.SubmitAccepted, out)

	out, err = d.Submit(ctx, logEntry(2022, 3, "Amy", models.ResultPositive, models.Fri))
	require.NoError(t, err)
	assert.Equal(t, models.SubmitSkipped, out)

	entries, err := repo.ReadLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ResultNegative, entries[0].Result)
}
