package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlanIsValid(t *testing.T) {
	plan := DefaultPlan()
	require.NoError(t, plan.Validate())
	assert.EqualValues(t, 42, plan.Augment.Seed)
	assert.EqualValues(t, 99, plan.Replies.Seed)
	assert.Equal(t, 12, plan.Augment.MinEventBookmarksPerUser)
	assert.Equal(t, []int{2, 3}, plan.Replies.TargetReplies)
}

func TestLoadPlanOverlaysYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `
augment:
  eventPins: 8
  attendeesPerEvent:
    min: 2
    max: 3
replies:
  targetReplies: [4]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)

	assert.Equal(t, 8, plan.Augment.EventPins)
	assert.Equal(t, Range{Min: 2, Max: 3}, plan.Augment.AttendeesPerEvent)
	assert.Equal(t, []int{4}, plan.Replies.TargetReplies)
	// untouched fields keep their defaults
	assert.Equal(t, 40, plan.Augment.DiscussionPins)
	assert.EqualValues(t, 42, plan.Augment.Seed)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadPlans(t *testing.T) {
	inverted := DefaultPlan()
	inverted.Augment.AttendeesPerEvent = Range{Min: 6, Max: 5}
	assert.Error(t, inverted.Validate())

	noTargets := DefaultPlan()
	noTargets.Replies.TargetReplies = nil
	assert.Error(t, noTargets.Validate())

	badChance := DefaultPlan()
	badChance.Replies.ParentLinkChance = 1.5
	assert.Error(t, badChance.Validate())

	noLimits := DefaultPlan()
	noLimits.Augment.ParticipantLimits = []int{}
	assert.Error(t, noLimits.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SAMPLE_DATA_DIR", "/tmp/sample")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SAMPLE_PLAN_FILE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sample", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultPlan(), cfg.Plan)
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SAMPLE_DATA_DIR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SAMPLE_PLAN_FILE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}
