package service

import (
	"github.com/Kotlang/sampledataGo/db"
	"github.com/Kotlang/sampledataGo/logger"
	"github.com/Kotlang/sampledataGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// StatsService recomputes every derived counter from the relation records. Counters are
// never incremented while records are created; this pass is the only writer.
type StatsService struct {
	db db.SampleDbInterface
}

func NewStatsService(db db.SampleDbInterface) *StatsService {
	return &StatsService{
		db: db,
	}
}

type RecomputeReport struct {
	Users     int
	Pins      int
	ChatRooms int
}

// relationCounts holds the cardinality of every relation, grouped by the referenced record.
type relationCounts struct {
	bookmarksByPin  map[primitive.ObjectID]int
	bookmarksByUser map[primitive.ObjectID]int
	repliesByPin    map[primitive.ObjectID]int
	repliesByAuthor map[primitive.ObjectID]int
	eventsHosted    map[primitive.ObjectID]int
	eventsAttended  map[primitive.ObjectID]int
}

// Run loads the dataset, recomputes it, validates it and persists it.
func (s *StatsService) Run() (*RecomputeReport, error) {
	ds, err := s.db.Load()
	if err != nil {
		return nil, err
	}
	report := s.Recompute(ds)
	if err := ValidateDataset(ds); err != nil {
		return nil, err
	}
	if err := s.db.Persist(ds); err != nil {
		return nil, err
	}
	return &report, nil
}

// Recompute rewrites pin, chat room and user counters over the complete relation graph.
// Running it twice yields the same dataset.
func (s *StatsService) Recompute(ds *models.Dataset) RecomputeReport {
	for i := range ds.Pins {
		if models.IsEvent(ds.Pins[i]) {
			dedupeRefs(&ds.Pins[i], "attendingUserIds")
		}
	}
	for i := range ds.ChatRooms {
		dedupeRefs(&ds.ChatRooms[i], "participantIds")
	}

	counts := countRelations(ds)

	for i := range ds.Pins {
		pin := &ds.Pins[i]
		id, ok := models.RecordId(*pin)
		if !ok {
			continue
		}
		c := models.PinCounters{
			BookmarkCount: counts.bookmarksByPin[id],
			ReplyCount:    counts.repliesByPin[id],
		}
		models.Set(pin, "bookmarkCount", c.BookmarkCount)
		models.Set(pin, "replyCount", c.ReplyCount)
		models.SetIn(pin, "stats", "bookmarkCount", c.BookmarkCount)
		models.SetIn(pin, "stats", "replyCount", c.ReplyCount)
		if models.IsEvent(*pin) {
			models.Set(pin, "participantCount", len(models.GetArray(*pin, "attendingUserIds")))
		}
	}

	for i := range ds.ChatRooms {
		room := &ds.ChatRooms[i]
		models.Set(room, "participantCount", len(models.GetArray(*room, "participantIds")))
	}

	for i := range ds.Users {
		user := &ds.Users[i]
		id, ok := models.RecordId(*user)
		if !ok {
			continue
		}
		stats := models.UserStats{
			Bookmarks:      counts.bookmarksByUser[id],
			EventsHosted:   counts.eventsHosted[id],
			EventsAttended: counts.eventsAttended[id],
			Posts:          counts.repliesByAuthor[id],
		}
		models.SetIn(user, "stats", "bookmarks", stats.Bookmarks)
		models.SetIn(user, "stats", "eventsHosted", stats.EventsHosted)
		models.SetIn(user, "stats", "eventsAttended", stats.EventsAttended)
		models.SetIn(user, "stats", "posts", stats.Posts)
	}

	report := RecomputeReport{Users: len(ds.Users), Pins: len(ds.Pins), ChatRooms: len(ds.ChatRooms)}
	logger.Info("Recomputed derived counters",
		zap.Int("users", report.Users), zap.Int("pins", report.Pins), zap.Int("chatRooms", report.ChatRooms))
	return report
}

func countRelations(ds *models.Dataset) relationCounts {
	counts := relationCounts{
		bookmarksByPin:  map[primitive.ObjectID]int{},
		bookmarksByUser: map[primitive.ObjectID]int{},
		repliesByPin:    map[primitive.ObjectID]int{},
		repliesByAuthor: map[primitive.ObjectID]int{},
		eventsHosted:    map[primitive.ObjectID]int{},
		eventsAttended:  map[primitive.ObjectID]int{},
	}

	for _, bm := range ds.Bookmarks {
		if pin, ok := models.DerefField(bm, "pinId"); ok {
			counts.bookmarksByPin[pin]++
		}
		if user, ok := models.DerefField(bm, "userId"); ok {
			counts.bookmarksByUser[user]++
		}
	}

	for _, reply := range ds.Replies {
		if pin, ok := models.DerefField(reply, "pinId"); ok {
			counts.repliesByPin[pin]++
		}
		if author, ok := models.DerefField(reply, "authorId"); ok {
			counts.repliesByAuthor[author]++
		}
	}

	for _, pin := range ds.Pins {
		if !models.IsEvent(pin) {
			continue
		}
		if creator, ok := models.DerefField(pin, "creatorId"); ok {
			counts.eventsHosted[creator]++
		}
		for _, attendee := range models.DerefList(pin, "attendingUserIds") {
			counts.eventsAttended[attendee]++
		}
	}
	return counts
}

// dedupeRefs drops repeated references from a set-valued field, keeping first occurrences.
// The field is only rewritten when something was dropped.
func dedupeRefs(doc *bson.D, key string) {
	arr := models.GetArray(*doc, key)
	seen := map[primitive.ObjectID]bool{}
	kept := bson.A{}
	for _, v := range arr {
		if id, ok := models.Deref(v); ok {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		kept = append(kept, v)
	}
	if len(kept) != len(arr) {
		models.Set(doc, key, kept)
	}
}
