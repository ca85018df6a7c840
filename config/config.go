package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir  = "docs/mongodb-local-sample-data"
	DefaultLogLevel = "info"
)

// Config is assembled from the environment, optionally seeded from a .env file.
type Config struct {
	DataDir  string
	LogLevel string
	PlanFile string
	Plan     Plan
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type AugmentPlan struct {
	Seed                     int64    `yaml:"seed"`
	EventPins                int      `yaml:"eventPins"`
	DiscussionPins           int      `yaml:"discussionPins"`
	AttendeesPerEvent        Range    `yaml:"attendeesPerEvent"`
	MinEventBookmarksPerUser int      `yaml:"minEventBookmarksPerUser"`
	MaxRepliesPerPin         int      `yaml:"maxRepliesPerPin"`
	DiscussionBookmarks      int      `yaml:"discussionBookmarks"`
	ChatRoomId               string   `yaml:"chatRoomId"`
	LinkedLocationId         string   `yaml:"linkedLocationId"`
	PhotoRange               Range    `yaml:"photoRange"`
	EventStartDaysApart      int      `yaml:"eventStartDaysApart"`
	ParticipantLimits        []int    `yaml:"participantLimits"`
	ChatAttachmentEvery      int      `yaml:"chatAttachmentEvery"`
	ChatAttachments          []string `yaml:"chatAttachments"`
}

type RepliesPlan struct {
	Seed             int64   `yaml:"seed"`
	MinReplies       int     `yaml:"minReplies"`
	TargetReplies    []int   `yaml:"targetReplies"`
	ParentLinkChance float64 `yaml:"parentLinkChance"`
}

// Plan holds the fixed generation constants. Seeds are literals so runs are reproducible.
type Plan struct {
	Augment AugmentPlan `yaml:"augment"`
	Replies RepliesPlan `yaml:"replies"`
}

func DefaultPlan() Plan {
	return Plan{
		Augment: AugmentPlan{
			Seed:                     42,
			EventPins:                40,
			DiscussionPins:           40,
			AttendeesPerEvent:        Range{Min: 5, Max: 6},
			MinEventBookmarksPerUser: 12,
			MaxRepliesPerPin:         3,
			DiscussionBookmarks:      4,
			ChatRoomId:               "68e061721329566a22d40007",
			LinkedLocationId:         "68e061721329566a22d474c2",
			PhotoRange:               Range{Min: 21, Max: 70},
			EventStartDaysApart:      2,
			ParticipantLimits:        []int{40, 60, 80, 120},
			ChatAttachmentEvery:      3,
			ChatAttachments: []string{
				"/images/discussion/discussion-05",
				"/images/event/event-12",
				"/images/discussion/discussion-33",
				"/images/event/event-27",
			},
		},
		Replies: RepliesPlan{
			Seed:             99,
			MinReplies:       2,
			TargetReplies:    []int{2, 3},
			ParentLinkChance: 0.6,
		},
	}
}

// Validate rejects plans that cannot produce a consistent dataset.
func (p Plan) Validate() error {
	a := p.Augment
	if a.EventPins < 0 || a.DiscussionPins < 0 {
		return fmt.Errorf("pin counts must not be negative")
	}
	if a.AttendeesPerEvent.Min < 0 || a.AttendeesPerEvent.Min > a.AttendeesPerEvent.Max {
		return fmt.Errorf("invalid attendeesPerEvent range [%d,%d]", a.AttendeesPerEvent.Min, a.AttendeesPerEvent.Max)
	}
	if a.PhotoRange.Min > a.PhotoRange.Max {
		return fmt.Errorf("invalid photoRange [%d,%d]", a.PhotoRange.Min, a.PhotoRange.Max)
	}
	if a.MinEventBookmarksPerUser < 0 || a.MaxRepliesPerPin < 0 || a.DiscussionBookmarks < 0 {
		return fmt.Errorf("quotas must not be negative")
	}
	if len(a.ParticipantLimits) == 0 {
		return fmt.Errorf("participantLimits must not be empty")
	}
	if a.ChatAttachmentEvery <= 0 || len(a.ChatAttachments) == 0 {
		return fmt.Errorf("chat attachments need a positive interval and a non-empty pool")
	}
	r := p.Replies
	if r.MinReplies < 0 {
		return fmt.Errorf("minReplies must not be negative")
	}
	if len(r.TargetReplies) == 0 {
		return fmt.Errorf("targetReplies must not be empty")
	}
	if r.ParentLinkChance < 0 || r.ParentLinkChance > 1 {
		return fmt.Errorf("parentLinkChance must be within [0,1], got %v", r.ParentLinkChance)
	}
	return nil
}

// LoadPlan overlays the YAML file at path on top of the default plan.
func LoadPlan(path string) (Plan, error) {
	plan := DefaultPlan()
	if path == "" {
		return plan, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("reading plan file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return plan, fmt.Errorf("parsing plan file %s: %w", path, err)
	}
	return plan, nil
}

// LoadDotEnv reads .env into the environment. A missing file is reported, not fatal.
func LoadDotEnv() error {
	return godotenv.Load()
}

// FromEnv builds the configuration from the environment and the optional plan overlay.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DataDir:  getEnv("SAMPLE_DATA_DIR", DefaultDataDir),
		LogLevel: getEnv("LOG_LEVEL", DefaultLogLevel),
		PlanFile: os.Getenv("SAMPLE_PLAN_FILE"),
	}

	plan, err := LoadPlan(cfg.PlanFile)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation plan: %w", err)
	}
	cfg.Plan = plan
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
