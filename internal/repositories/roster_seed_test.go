package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRosterSeed(t *testing.T) {
	path := writeSeed(t, `
members:
  - username: bo
    password: pw-b
    name: Bo
  - username: amy
    password: pw-a
    name: " Amy "
`)
	users, err := LoadRosterSeed(path)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bo", users[0].Username)
	assert.Equal(t, "Amy", users[1].Name)

	repo := newSQLiteLedger(t)
	require.NoError(t, repo.PutMembers(context.Background(), users))
	roster, err := repo.ReadRoster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo", "Amy"}, roster.Names)
}

func TestLoadRosterSeed_Invalid(t *testing.T) {
	_, err := LoadRosterSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadRosterSeed(writeSeed(t, "members: [oops"))
	assert.Error(t, err)

	_, err = LoadRosterSeed(writeSeed(t, "members:\n  - username: amy\n"))
	assert.Error(t, err)

	_, err = LoadRosterSeed(writeSeed(t, "members:\n  - {username: amy, name: A}\n  - {username: amy, name: B}\n"))
	assert.Error(t, err)
}
