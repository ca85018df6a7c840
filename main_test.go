package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kotlang/sampledataGo/db"
	"github.com/Kotlang/sampledataGo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleCollections = map[models.CollectionName]string{
	models.Users: `[
  {"_id": {"$oid": "68e061721329566a22d40001"}, "username": "kay", "displayName": "Kay"},
  {"_id": {"$oid": "68e061721329566a22d40002"}, "username": "ren", "displayName": "Ren"}
]`,
	models.Pins: `[
  {"_id": {"$oid": "68e061721329566a22d40101"}, "type": "event", "title": "Dock Day",
   "creatorId": {"$oid": "68e061721329566a22d40001"},
   "attendingUserIds": [{"$oid": "68e061721329566a22d40002"}]}
]`,
	models.Bookmarks: `[
  {"_id": {"$oid": "68e061721329566a22d40201"}, "userId": {"$oid": "68e061721329566a22d40002"},
   "pinId": {"$oid": "68e061721329566a22d40101"}}
]`,
}

func writeSampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range models.CollectionNames {
		content, ok := sampleCollections[name]
		if !ok {
			content = "[]"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, db.CollectionFileName(name)), []byte(content), 0644))
	}
	t.Setenv("SAMPLE_DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SAMPLE_PLAN_FILE", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecomputeStatsCommand(t *testing.T) {
	dir := writeSampleDir(t)

	out, err := execute(t, "recompute-stats")

	require.NoError(t, err)
	assert.Equal(t, "Recomputed stats for 2 users and 1 pins.\n", out)

	ds, err := db.NewSampleDb(dir).Load()
	require.NoError(t, err)
	stats, ok := models.GetDoc(ds.Users[1], "stats")
	require.True(t, ok)
	assert.Equal(t, "bookmarks", stats[0].Key)
}

func TestEnsureRepliesCommand(t *testing.T) {
	dir := writeSampleDir(t)

	out, err := execute(t, "ensure-replies")

	require.NoError(t, err)
	assert.Regexp(t, `^Added [23] replies across 1 pins\.\n$`, out)

	ds, err := db.NewSampleDb(dir).Load()
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Replies)
}

func TestAugmentCommandFailsWithoutChatRoom(t *testing.T) {
	dir := writeSampleDir(t)
	before, err := os.ReadFile(filepath.Join(dir, db.CollectionFileName(models.Pins)))
	require.NoError(t, err)

	_, err = execute(t, "augment")

	require.Error(t, err)
	after, err := os.ReadFile(filepath.Join(dir, db.CollectionFileName(models.Pins)))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSubcommandsRejectArguments(t *testing.T) {
	writeSampleDir(t)

	_, err := execute(t, "recompute-stats", "extra")

	assert.Error(t, err)
}
