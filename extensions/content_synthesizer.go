package extensions

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Kotlang/sampledataGo/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsufficientContentError reports a content pool smaller than the records that need it.
type InsufficientContentError struct {
	Pool string
	Have int
	Need int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("not enough %s: %d available, %d needed", e.Pool, e.Have, e.Need)
}

func IsInsufficientContentError(err error) bool {
	var ic *InsufficientContentError
	return errors.As(err, &ic)
}

var (
	eventTitleParts = [3][]string{
		{"Neon", "Sunset", "Retro", "Velocity", "Lagoon", "Cosmic"},
		{"Kayak", "Trail", "Dive", "Dirt", "Scuba", "Board", "Drone"},
		{"Sprint", "Mixer", "Derby", "Carnival", "Showcase", "Symposium"},
	}
	discussionTitleParts = [3][]string{
		{"Quiet", "Chaotic", "Lo-Fi", "Skyline", "Mesa", "Quantum"},
		{"Signal", "Thread", "Camp", "Desk", "Idea", "Patch"},
		{"Circle", "Lab", "Club", "Forum", "Bazaar", "Pocket"},
	}

	EventTags      = []string{"kayak", "offroad", "scuba", "photo", "debug", "training", "demo", "music"}
	DiscussionTags = []string{"chat", "debug", "design", "surf", "grid", "map", "qa", "coffee"}

	eventGear = []string{"kayaks", "dirt rigs", "reef drones", "camera sleds", "trail beacons"}
	syllables = []string{"zor", "bex", "malo", "quin", "riff", "plom", "zeta", "kyu", "vex", "luma"}

	// top-up replies draw from their own pool
	replySyllables = []string{"zor", "plix", "melo", "drim", "kyu", "vex", "luma", "riff", "scof", "bloop"}

	flairs    = []string{"!", "?", "...", "!!!"}
	snippets  = []string{"blip", "swoop", "gloop", "kay-mode", "debug dribble", "calico loop"}
	sentences = []string{
		"%s calibrating vibes around '%s'",
		"%s pls bring more snacks to '%s'",
		"%s someone left a paddle at '%s'",
		"%s thread drift achieved near '%s'",
	}
	anchors = []struct{ label, line1 string }{
		{"Marine Stadium Launch", "5255 Paoli Way"},
		{"CSULB Rec Fields", "1250 N Bellflower Blvd"},
		{"Bluff Park Meetup", "2500 E Ocean Blvd"},
		{"Colorado Lagoon Hub", "5119 E Colorado St"},
		{"Palo Verde Pit Zone", "1800 Palo Verde Ave"},
		{"Los Altos Lot", "2250 Bellflower Blvd"},
	}
)

const (
	centerLat = 33.7838
	centerLon = -118.1136
	latSpread = 0.012
	lonSpread = 0.02
)

// ContentSynthesizer produces flavor text and cosmetic payloads from a seeded source.
// It never sees identifiers.
type ContentSynthesizer struct {
	rnd *rand.Rand
}

func NewContentSynthesizer(rnd *rand.Rand) *ContentSynthesizer {
	return &ContentSynthesizer{rnd: rnd}
}

// Titles returns needed distinct titles drawn from the shuffled prefix x subject x suffix product.
func (c *ContentSynthesizer) Titles(prefixes, subjects, suffixes []string, needed int) ([]string, error) {
	combos := make([]string, 0, len(prefixes)*len(subjects)*len(suffixes))
	for _, p := range prefixes {
		for _, s := range subjects {
			for _, suf := range suffixes {
				combos = append(combos, strings.TrimSpace(p+" "+s+" "+suf))
			}
		}
	}
	c.rnd.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
	if len(combos) < needed {
		return nil, &InsufficientContentError{Pool: "title combinations", Have: len(combos), Need: needed}
	}
	return combos[:needed], nil
}

func (c *ContentSynthesizer) EventTitles(needed int) ([]string, error) {
	return c.Titles(eventTitleParts[0], eventTitleParts[1], eventTitleParts[2], needed)
}

func (c *ContentSynthesizer) DiscussionTitles(needed int) ([]string, error) {
	return c.Titles(discussionTitleParts[0], discussionTitleParts[1], discussionTitleParts[2], needed)
}

// PhotoPaths returns the shuffled /images/<kind>/<kind>-NN paths for NN in [from, to].
func (c *ContentSynthesizer) PhotoPaths(kind string, from, to int) []string {
	paths := []string{}
	for i := from; i <= to; i++ {
		paths = append(paths, fmt.Sprintf("/images/%s/%s-%02d", kind, kind, i))
	}
	c.rnd.Shuffle(len(paths), func(i, j int) { paths[i], paths[j] = paths[j], paths[i] })
	return paths
}

func (c *ContentSynthesizer) GeoPoint() models.GeoPoint {
	lat := centerLat + c.uniform(-latSpread, latSpread)
	lon := centerLon + c.uniform(-lonSpread, lonSpread)
	return models.GeoPoint{
		Type:        "Point",
		Coordinates: []float64{round6(lon), round6(lat)},
		Accuracy:    c.IntBetween(5, 12),
	}
}

func (c *ContentSynthesizer) PreciseAddress() models.PreciseAddress {
	anchor := anchors[c.rnd.Intn(len(anchors))]
	return models.PreciseAddress{
		Precise: anchor.label,
		Components: models.AddressComponents{
			Line1:      anchor.line1,
			City:       "Long Beach",
			State:      "CA",
			PostalCode: "90840",
			Country:    "USA",
		},
	}
}

func (c *ContentSynthesizer) ApproximateAddress() models.ApproximateAddress {
	return models.ApproximateAddress{
		City:      "Long Beach",
		State:     "CA",
		Country:   "USA",
		Formatted: "Long Beach, CA",
	}
}

func (c *ContentSynthesizer) PhotoPayload(path string) models.Photo {
	return models.Photo{
		Url:          path,
		ThumbnailUrl: path,
		Width:        512,
		Height:       512,
		MimeType:     "image/jpeg",
	}
}

// DefaultAvatar is used for authors whose profile has no avatar.
func (c *ContentSynthesizer) DefaultAvatar() models.Avatar {
	return models.Avatar{
		Url:          "/images/profile/profile-01",
		ThumbnailUrl: "/images/profile/profile-01",
		Width:        128,
		Height:       128,
		MimeType:     "image/jpeg",
		UploadedAt:   primitive.NewDateTimeFromTime(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func (c *ContentSynthesizer) EventDescription() string {
	return "Hands-on session featuring " + c.Choice(eventGear) + ". Expect ridiculous banter and impromptu challenges."
}

func (c *ContentSynthesizer) DiscussionDescription() string {
	return "Open mic for nonsense theories, waypoint lore, and snack trades."
}

// Gibberish builds a capitalized nonsense phrase of 3 to 7 words.
func (c *ContentSynthesizer) Gibberish() string {
	return c.phrase(syllables, 7, "!")
}

// ShortMessage is a gibberish reply line prefixed with a snippet.
func (c *ContentSynthesizer) ShortMessage() string {
	return c.Choice(snippets) + " : " + c.Gibberish()
}

// PlayfulSentence mentions the given title after a 3 to 6 word phrase with random flair.
func (c *ContentSynthesizer) PlayfulSentence(title string) string {
	noise := c.phrase(replySyllables, 6, c.Choice(flairs))
	return fmt.Sprintf(c.Choice(sentences), noise, title)
}

func (c *ContentSynthesizer) EventBookmarkNote(title string) string {
	return "Stack extras for " + title
}

func (c *ContentSynthesizer) DiscussionBookmarkNote(title string) string {
	return "Clip notes for " + title
}

// Tags samples n distinct tags from pool.
func (c *ContentSynthesizer) Tags(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	tags := make([]string, 0, n)
	for _, i := range c.rnd.Perm(len(pool))[:n] {
		tags = append(tags, pool[i])
	}
	return tags
}

func (c *ContentSynthesizer) Choice(pool []string) string {
	return pool[c.rnd.Intn(len(pool))]
}

func (c *ContentSynthesizer) ChoiceInt(pool []int) int {
	return pool[c.rnd.Intn(len(pool))]
}

// IntBetween returns a value in [lo, hi].
func (c *ContentSynthesizer) IntBetween(lo, hi int) int {
	return lo + c.rnd.Intn(hi-lo+1)
}

func (c *ContentSynthesizer) phrase(pool []string, maxWords int, flair string) string {
	count := c.IntBetween(3, maxWords)
	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := c.Choice(pool)
		if c.rnd.Intn(2) == 1 {
			word += c.Choice(pool)
		}
		words = append(words, word)
	}
	text := strings.Join(words, " ")
	return strings.ToUpper(text[:1]) + text[1:] + flair
}

func (c *ContentSynthesizer) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*c.rnd.Float64()
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
