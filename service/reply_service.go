package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Kotlang/sampledataGo/config"
	"github.com/Kotlang/sampledataGo/db"
	"github.com/Kotlang/sampledataGo/extensions"
	"github.com/Kotlang/sampledataGo/logger"
	"github.com/Kotlang/sampledataGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var replyBaseline = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// ReplyService tops up pins that have too few replies.
type ReplyService struct {
	db    db.SampleDbInterface
	plan  config.RepliesPlan
	stats *StatsService
}

func NewReplyService(db db.SampleDbInterface, plan config.RepliesPlan, stats *StatsService) *ReplyService {
	return &ReplyService{
		db:    db,
		plan:  plan,
		stats: stats,
	}
}

type ReplySummary struct {
	Replies int
	Pins    int
}

func (s ReplySummary) String() string {
	if s.Replies == 0 {
		return "All pins already satisfied minimum replies."
	}
	return fmt.Sprintf("Added %d replies across %d pins.", s.Replies, s.Pins)
}

// Run persists only when replies were added.
func (s *ReplyService) Run() (*ReplySummary, error) {
	ds, err := s.db.Load()
	if err != nil {
		return nil, err
	}
	summary, err := s.EnsureMinimumReplies(ds)
	if err != nil {
		return nil, err
	}
	if summary.Replies == 0 {
		return summary, nil
	}
	if err := s.db.Persist(ds); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ReplyService) EnsureMinimumReplies(ds *models.Dataset) (*ReplySummary, error) {
	return s.ensureMinimumReplies(ds, db.NewIdRegistry(ds))
}

func (s *ReplyService) ensureMinimumReplies(ds *models.Dataset, registry *db.IdRegistry) (*ReplySummary, error) {
	rnd := rand.New(rand.NewSource(s.plan.Seed))
	synth := extensions.NewContentSynthesizer(rnd)
	userIds := ds.UserIds()

	counts := map[primitive.ObjectID]int{}
	for _, reply := range ds.Replies {
		if pin, ok := models.DerefField(reply, "pinId"); ok {
			counts[pin]++
		}
	}

	summary := &ReplySummary{}
	for _, pin := range ds.Pins {
		pinId, ok := models.RecordId(pin)
		if !ok {
			continue
		}
		existing := counts[pinId]
		if existing >= s.plan.MinReplies {
			continue
		}
		needed := synth.ChoiceInt(s.plan.TargetReplies) - existing
		if needed <= 0 {
			continue
		}

		pool := authorPool(pin, userIds)
		if len(pool) == 0 {
			return nil, ErrNoUsers
		}
		title := models.GetString(pin, "title")
		if title == "" {
			title = "a pin"
		}

		draw := newAuthorDraw(rnd, pool)
		var previous *primitive.ObjectID
		for i := 0; i < needed; i++ {
			author := draw.next()
			replyId := registry.Allocate()

			var parent *primitive.ObjectID
			if previous != nil && rnd.Float64() < s.plan.ParentLinkChance {
				parent = previous
			}
			reply := models.NewReply(replyId, pinId, author, parent, synth.PlayfulSentence(title))
			created := primitive.NewDateTimeFromTime(replyBaseline.
				AddDate(0, 0, synth.IntBetween(0, 30)).
				Add(time.Duration(synth.IntBetween(0, 720)) * time.Minute))
			reply.CreatedAt = created
			reply.UpdatedAt = created

			doc, err := models.ToDocument(reply)
			if err != nil {
				return nil, err
			}
			ds.Replies = append(ds.Replies, doc)
			previous = &replyId
		}
		counts[pinId] += needed
		summary.Replies += needed
		summary.Pins++
	}

	if summary.Replies == 0 {
		logger.Info("Every pin already meets the reply minimum", zap.Int("minReplies", s.plan.MinReplies))
		return summary, nil
	}

	s.stats.Recompute(ds)
	if err := ValidateDataset(ds); err != nil {
		return nil, err
	}
	logger.Info("Added replies", zap.Int("replies", summary.Replies), zap.Int("pins", summary.Pins))
	return summary, nil
}

// authorPool is the distinct attendees of an event pin, falling back to every user.
func authorPool(pin bson.D, userIds []primitive.ObjectID) []primitive.ObjectID {
	if models.IsEvent(pin) {
		if attendees := models.DerefList(pin, "attendingUserIds"); len(attendees) > 0 {
			return uniqueIds(attendees)
		}
	}
	return userIds
}

// authorDraw hands out pool members without replacement, reshuffling the full pool once it
// runs dry.
type authorDraw struct {
	rnd       *rand.Rand
	pool      []primitive.ObjectID
	available []primitive.ObjectID
}

func newAuthorDraw(rnd *rand.Rand, pool []primitive.ObjectID) *authorDraw {
	d := &authorDraw{rnd: rnd, pool: pool}
	d.refill()
	return d
}

func (d *authorDraw) refill() {
	d.available = append([]primitive.ObjectID{}, d.pool...)
	d.rnd.Shuffle(len(d.available), func(i, j int) {
		d.available[i], d.available[j] = d.available[j], d.available[i]
	})
}

func (d *authorDraw) next() primitive.ObjectID {
	if len(d.available) == 0 {
		d.refill()
	}
	last := len(d.available) - 1
	author := d.available[last]
	d.available = d.available[:last]
	return author
}
