package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyLedger_SheetsIntoSQL(t *testing.T) {
	fake := &fakeSheets{
		log: [][]interface{}{
			logHeader,
			{"2022-01-05 10:00", "2022", "1", "2022-01-03", "2022-01-09", "Bo", "2022-01-05", "Mon, Wed", "", "Negative (C)"},
			{"2022-01-04 09:00", "2022", "1", "2022-01-03", "2022-01-09", "Bo", "2022-01-04", "Tue", "first", "Positive (T)"},
			{"2022-01-11 09:00", "2022", "2", "2022-01-10", "2022-01-16", "Amy", "2022-01-11", "Fri", "", "Negative (C)"},
		},
		roster: [][]interface{}{
			{"Username", "Password", "Name"},
			{"bo", "pw", "Bo"},
			{"amy", "pw", "Amy"},
		},
	}
	source := newSheetsLedger(t, fake)
	target := newSQLiteLedger(t)
	ctx := context.Background()

	copied, skipped, err := CopyLedger(ctx, source, target)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	assert.Equal(t, 1, skipped)

	entries, err := target.ReadLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Amy", entries[0].Member)
	assert.Equal(t, "first", entries[1].Remark, "earliest submission wins")

	roster, err := target.ReadRoster(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo", "Amy"}, roster.Names)

	// re-running copies nothing new
	copied, skipped, err = CopyLedger(ctx, source, target)
	require.NoError(t, err)
	assert.Equal(t, 0, copied)
	assert.Equal(t, 3, skipped)
}
