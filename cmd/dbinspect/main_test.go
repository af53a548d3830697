package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/logger"
	"github.com/smartspb/mediabot/internal/store/sqlite"
)

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := sqlite.Open(path, logger.Nop().Logger)
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)
	for i, desc := range []string{"первая", "вторая"} {
		c := &domain.Content{UserID: 42, Description: desc}
		c.Stamp(base.Add(time.Duration(i) * time.Hour))
		c.Media = []domain.Media{{FileID: "f" + desc, Kind: domain.MediaPhoto}}
		tags := []domain.TagRef{{Name: "#кот", Origin: domain.TagUser}}
		require.NoError(t, s.CreateContent(context.Background(), c, tags))
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStats(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "--db", path, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "1 users, 2 entries, 2 media files")
}

func TestTags(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "--db", path, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "#кот")
	assert.Contains(t, out, string(domain.TagUser))
}

func TestUser(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "--db", path, "user", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "первая")
	assert.Contains(t, out, "вторая")

	out, err = run(t, "--db", path, "user", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "user 7 has no entries")
}

func TestUser_InvalidID(t *testing.T) {
	path := seedDB(t)

	_, err := run(t, "--db", path, "user", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user id")
}

func TestMissingDatabase(t *testing.T) {
	_, err := run(t, "--db", filepath.Join(t.TempDir(), "absent.db"), "stats")
	require.Error(t, err)
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	var out bytes.Buffer
	got := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil, &out)
	assert.Contains(t, got, "only")
	assert.Empty(t, renderTable(nil, nil, nil, &out))
}
