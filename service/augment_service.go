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
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	eventBaseStart = time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	replyBaseDate  = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	bookmarkBase   = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	chatStart      = time.Date(2026, 10, 21, 18, 0, 0, 0, time.UTC)
)

// AugmentService grows the dataset with event and discussion pins plus the bookmarks,
// replies and proximity chat activity that reference them.
type AugmentService struct {
	db    db.SampleDbInterface
	plan  config.AugmentPlan
	stats *StatsService
}

func NewAugmentService(db db.SampleDbInterface, plan config.AugmentPlan, stats *StatsService) *AugmentService {
	return &AugmentService{
		db:    db,
		plan:  plan,
		stats: stats,
	}
}

type AugmentSummary struct {
	Pins         int
	Replies      int
	Bookmarks    int
	ChatMessages int
	Presence     int
	Shortfalls   []QuotaShortfall
}

func (s AugmentSummary) String() string {
	line := fmt.Sprintf("Added %d pins, %d replies, %d bookmarks, %d chat messages, %d presence records.",
		s.Pins, s.Replies, s.Bookmarks, s.ChatMessages, s.Presence)
	if len(s.Shortfalls) == 0 {
		return line
	}
	unmet := 0
	for _, shortfall := range s.Shortfalls {
		unmet += shortfall.Unmet
	}
	return fmt.Sprintf("%s %d users left %d event bookmarks short of quota.", line, len(s.Shortfalls), unmet)
}

// newPin is what later passes need to know about a pin created in this run.
type newPin struct {
	id        primitive.ObjectID
	event     bool
	title     string
	attendees []primitive.ObjectID
}

// augmentRun is the per-run state. Every random draw goes through rnd.
type augmentRun struct {
	plan     config.AugmentPlan
	ds       *models.Dataset
	registry *db.IdRegistry
	rnd      *rand.Rand
	synth    *extensions.ContentSynthesizer
	userIds  []primitive.ObjectID
	linked   primitive.ObjectID
	summary  AugmentSummary
}

func (s *AugmentService) Run() (*AugmentSummary, error) {
	ds, err := s.db.Load()
	if err != nil {
		return nil, err
	}
	summary, err := s.Augment(ds)
	if err != nil {
		return nil, err
	}
	if err := s.db.Persist(ds); err != nil {
		return nil, err
	}
	return summary, nil
}

// Augment mutates ds in memory, then recomputes counters and validates the result.
// On error ds must be discarded.
func (s *AugmentService) Augment(ds *models.Dataset) (*AugmentSummary, error) {
	return s.augment(ds, db.NewIdRegistry(ds))
}

func (s *AugmentService) augment(ds *models.Dataset, registry *db.IdRegistry) (*AugmentSummary, error) {
	userIds := ds.UserIds()
	if len(userIds) == 0 {
		return nil, ErrNoUsers
	}
	linked, err := primitive.ObjectIDFromHex(s.plan.LinkedLocationId)
	if err != nil {
		return nil, fmt.Errorf("invalid linked location id %q: %w", s.plan.LinkedLocationId, err)
	}
	roomId, err := primitive.ObjectIDFromHex(s.plan.ChatRoomId)
	if err != nil {
		return nil, fmt.Errorf("invalid chat room id %q: %w", s.plan.ChatRoomId, err)
	}
	roomIdx := models.IndexOf(ds.ChatRooms, roomId)
	if roomIdx < 0 {
		return nil, &ChatRoomNotFoundError{RoomId: s.plan.ChatRoomId}
	}

	rnd := rand.New(rand.NewSource(s.plan.Seed))
	run := &augmentRun{
		plan:     s.plan,
		ds:       ds,
		registry: registry,
		rnd:      rnd,
		synth:    extensions.NewContentSynthesizer(rnd),
		userIds:  userIds,
		linked:   linked,
	}

	pins, assignments, err := run.addPins()
	if err != nil {
		return nil, err
	}
	if err := run.addReplies(pins); err != nil {
		return nil, err
	}
	if err := run.addBookmarks(pins, assignments); err != nil {
		return nil, err
	}
	if err := run.addChatActivity(roomId, roomIdx); err != nil {
		return nil, err
	}

	s.stats.Recompute(ds)
	if err := ValidateDataset(ds); err != nil {
		return nil, err
	}

	logger.Info("Augmented sample data",
		zap.Int("pins", run.summary.Pins),
		zap.Int("replies", run.summary.Replies),
		zap.Int("bookmarks", run.summary.Bookmarks),
		zap.Int("chatMessages", run.summary.ChatMessages),
		zap.Int("presence", run.summary.Presence),
		zap.Int("shortfalls", len(run.summary.Shortfalls)))
	return &run.summary, nil
}

// eventBookmarkCounts counts, per user, the existing bookmarks on event pins.
func eventBookmarkCounts(ds *models.Dataset) map[primitive.ObjectID]int {
	events := map[primitive.ObjectID]bool{}
	for _, pin := range ds.Pins {
		if id, ok := models.RecordId(pin); ok && models.IsEvent(pin) {
			events[id] = true
		}
	}
	counts := map[primitive.ObjectID]int{}
	for _, bm := range ds.Bookmarks {
		pair, ok := models.GetBookmarkPair(bm)
		if ok && events[pair.PinId] {
			counts[pair.UserId]++
		}
	}
	return counts
}

func (r *augmentRun) addPins() ([]newPin, *Assignments, error) {
	eventTitles, err := r.synth.EventTitles(r.plan.EventPins)
	if err != nil {
		return nil, nil, err
	}
	discussionTitles, err := r.synth.DiscussionTitles(r.plan.DiscussionPins)
	if err != nil {
		return nil, nil, err
	}
	eventPhotos := r.synth.PhotoPaths("event", r.plan.PhotoRange.Min, r.plan.PhotoRange.Max)
	discussionPhotos := r.synth.PhotoPaths("discussion", r.plan.PhotoRange.Min, r.plan.PhotoRange.Max)
	if len(eventPhotos) == 0 && r.plan.EventPins+r.plan.DiscussionPins > 0 {
		return nil, nil, &extensions.InsufficientContentError{Pool: "photos", Have: 0, Need: 1}
	}

	existing := eventBookmarkCounts(r.ds)
	assigner := NewQuotaAssigner(r.userIds, r.rnd)
	for _, uid := range r.userIds {
		assigner.SetQuota(uid, r.plan.MinEventBookmarksPerUser-existing[uid])
	}

	pins := []newPin{}
	assignments := NewAssignments()

	for idx := 0; idx < r.plan.EventPins; idx++ {
		pinId := r.registry.Allocate()
		attendees := assigner.PickTargets(r.synth.IntBetween(r.plan.AttendeesPerEvent.Min, r.plan.AttendeesPerEvent.Max))
		assignments.AddSource(pinId, attendees)

		doc, err := models.ToDocument(r.eventPin(pinId, idx, eventTitles[idx], eventPhotos[idx%len(eventPhotos)], attendees))
		if err != nil {
			return nil, nil, err
		}
		r.ds.Pins = append(r.ds.Pins, doc)
		pins = append(pins, newPin{id: pinId, event: true, title: eventTitles[idx], attendees: attendees})
	}

	r.summary.Shortfalls = assigner.TopUp(assignments)

	for idx := 0; idx < r.plan.DiscussionPins; idx++ {
		pinId := r.registry.Allocate()
		doc, err := models.ToDocument(r.discussionPin(pinId, idx, discussionTitles[idx], discussionPhotos[idx%len(discussionPhotos)]))
		if err != nil {
			return nil, nil, err
		}
		r.ds.Pins = append(r.ds.Pins, doc)
		pins = append(pins, newPin{id: pinId, title: discussionTitles[idx]})
	}

	r.summary.Pins = len(pins)
	return pins, assignments, nil
}

func (r *augmentRun) eventPin(id primitive.ObjectID, idx int, title, photo string, attendees []primitive.ObjectID) *models.EventPinModel {
	start := eventBaseStart.AddDate(0, 0, idx*r.plan.EventStartDaysApart)
	end := start.Add(time.Duration(r.synth.IntBetween(2, 5)) * time.Hour)
	created := primitive.NewDateTimeFromTime(start.AddDate(0, 0, -5))
	linked := r.linked
	cover := r.synth.PhotoPayload(photo)

	return &models.EventPinModel{
		PinId:                 id,
		Type:                  models.PinTypeEvent,
		CreatorId:             r.randomUser(),
		Title:                 title,
		Description:           r.synth.EventDescription(),
		Coordinates:           r.synth.GeoPoint(),
		Address:               r.synth.PreciseAddress(),
		ProximityRadiusMeters: r.synth.ChoiceInt([]int{800, 1000, 1200}),
		Photos:                []models.Photo{cover},
		CoverPhoto:            cover,
		TagIds:                []primitive.ObjectID{},
		Tags:                  r.synth.Tags(extensions.EventTags, 3),
		Options: models.EventOptions{
			AllowBookmarks:        true,
			AllowShares:           true,
			AllowReplies:          true,
			ShowAttendeeList:      true,
			VisibilityMode:        "map-and-list",
			ReminderMinutesBefore: r.synth.ChoiceInt([]int{30, 45, 60}),
		},
		RelatedPinIds:       []primitive.ObjectID{},
		LinkedLocationId:    &linked,
		Visibility:          "public",
		IsActive:            true,
		AttendingUserIds:    append([]primitive.ObjectID{}, attendees...),
		AttendeeWaitlistIds: []primitive.ObjectID{},
		Attendable:          true,
		ParticipantLimit:    r.synth.ChoiceInt(r.plan.ParticipantLimits),
		ParticipantCount:    len(attendees),
		StartDate:           primitive.NewDateTimeFromTime(start),
		EndDate:             primitive.NewDateTimeFromTime(end),
		Stats: models.PinStats{
			ShareCount: r.synth.IntBetween(0, 5),
			ViewCount:  r.synth.IntBetween(120, 800),
		},
		CreatedAt: created,
		UpdatedAt: created,
		ExpiresAt: primitive.NewDateTimeFromTime(end.AddDate(0, 0, 30)),
	}
}

func (r *augmentRun) discussionPin(id primitive.ObjectID, idx int, title, photo string) *models.DiscussionPinModel {
	start := eventBaseStart.AddDate(0, 0, idx)
	created := primitive.NewDateTimeFromTime(start.AddDate(0, 0, -3))
	linked := r.linked
	cover := r.synth.PhotoPayload(photo)

	return &models.DiscussionPinModel{
		PinId:                 id,
		Type:                  models.PinTypeDiscussion,
		CreatorId:             r.randomUser(),
		Title:                 title,
		Description:           r.synth.DiscussionDescription(),
		Coordinates:           r.synth.GeoPoint(),
		ApproximateAddress:    r.synth.ApproximateAddress(),
		ProximityRadiusMeters: r.synth.ChoiceInt([]int{400, 600, 800}),
		Photos:                []models.Photo{cover},
		CoverPhoto:            cover,
		TagIds:                []primitive.ObjectID{},
		Tags:                  r.synth.Tags(extensions.DiscussionTags, 3),
		Options: models.DiscussionOptions{
			AllowBookmarks: true,
			AllowShares:    true,
			AllowReplies:   true,
			VisibilityMode: "map-and-list",
		},
		RelatedPinIds:    []primitive.ObjectID{},
		LinkedLocationId: &linked,
		Visibility:       "public",
		IsActive:         true,
		Stats: models.PinStats{
			ShareCount: r.synth.IntBetween(0, 3),
			ViewCount:  r.synth.IntBetween(60, 420),
		},
		CreatedAt: created,
		UpdatedAt: created,
		ExpiresAt: primitive.NewDateTimeFromTime(start.AddDate(0, 0, 90)),
	}
}

// addReplies gives every new pin up to MaxRepliesPerPin replies by distinct authors. The
// first reply is the root and later ones answer it.
func (r *augmentRun) addReplies(pins []newPin) error {
	for _, pin := range pins {
		pool := r.userIds
		if pin.event {
			pool = pin.attendees
		}
		authors := sample(r.rnd, pool, r.plan.MaxRepliesPerPin)

		var root *primitive.ObjectID
		for _, author := range authors {
			replyId := r.registry.Allocate()
			reply := models.NewReply(replyId, pin.id, author, root, r.synth.ShortMessage())
			reply.CreatedAt = r.daysAfter(replyBaseDate, 60)
			reply.UpdatedAt = r.daysAfter(replyBaseDate, 60)

			doc, err := models.ToDocument(reply)
			if err != nil {
				return err
			}
			r.ds.Replies = append(r.ds.Replies, doc)
			if root == nil {
				root = &replyId
			}
		}
		r.summary.Replies += len(authors)
	}
	return nil
}

// addBookmarks links event pins to their topped-up assignments and discussion pins to a
// random sample of users, skipping pairs that already exist.
func (r *augmentRun) addBookmarks(pins []newPin, assignments *Assignments) error {
	pairs := map[models.BookmarkPair]bool{}
	for _, bm := range r.ds.Bookmarks {
		if pair, ok := models.GetBookmarkPair(bm); ok {
			pairs[pair] = true
		}
	}

	for _, pin := range pins {
		var users []primitive.ObjectID
		var notes string
		if pin.event {
			users = assignments.Targets(pin.id)
			notes = r.synth.EventBookmarkNote(pin.title)
		} else {
			users = sample(r.rnd, r.userIds, r.plan.DiscussionBookmarks)
			notes = r.synth.DiscussionBookmarkNote(pin.title)
		}

		for _, uid := range users {
			pair := models.BookmarkPair{UserId: uid, PinId: pin.id}
			if pairs[pair] {
				continue
			}
			pairs[pair] = true

			bookmark := models.NewBookmark(r.registry.Allocate(), uid, pin.id, notes, r.daysAfter(bookmarkBase, 45))
			doc, err := models.ToDocument(bookmark)
			if err != nil {
				return err
			}
			r.ds.Bookmarks = append(r.ds.Bookmarks, doc)
			r.summary.Bookmarks++
		}
	}
	return nil
}

// addChatActivity posts one message and one presence record per user in the configured room
// and makes every user a participant.
func (r *augmentRun) addChatActivity(roomId primitive.ObjectID, roomIdx int) error {
	for idx, user := range r.ds.Users {
		profile := models.GetUserProfile(user)
		stamp := primitive.NewDateTimeFromTime(chatStart.Add(time.Duration(idx*2) * time.Minute))

		snapshot := models.AuthorSnapshot{}
		if err := copier.Copy(&snapshot, &profile); err != nil {
			return err
		}
		snapshot.Avatar = r.avatar(user)

		attachments := []models.ImageAttachment{}
		if idx%r.plan.ChatAttachmentEvery == 0 {
			photo := r.synth.PhotoPayload(r.synth.Choice(r.plan.ChatAttachments))
			attachments = append(attachments, models.NewImageAttachment(photo))
		}

		message := &models.ChatMessageModel{
			MessageId:    r.registry.Allocate(),
			RoomId:       roomId,
			AuthorId:     profile.Id,
			Message:      r.synth.Gibberish(),
			Coordinates:  r.synth.GeoPoint(),
			Attachments:  attachments,
			Audit:        models.CreatorAudit{CreatedBy: profile.Id},
			CreatedAt:    stamp,
			UpdatedAt:    stamp,
			Author:       snapshot,
			AuthorAvatar: r.avatar(user),
		}
		doc, err := models.ToDocument(message)
		if err != nil {
			return err
		}
		r.ds.ChatMessages = append(r.ds.ChatMessages, doc)
		r.summary.ChatMessages++
	}

	for idx, uid := range r.userIds {
		joined := chatStart.Add(time.Duration(idx) * time.Minute)
		presence := &models.ChatPresenceModel{
			PresenceId:   r.registry.Allocate(),
			RoomId:       roomId,
			UserId:       uid,
			SessionId:    r.registry.Allocate(),
			JoinedAt:     primitive.NewDateTimeFromTime(joined),
			LastActiveAt: primitive.NewDateTimeFromTime(joined.Add(time.Duration(5+idx%4) * time.Minute)),
		}
		doc, err := models.ToDocument(presence)
		if err != nil {
			return err
		}
		r.ds.ChatPresence = append(r.ds.ChatPresence, doc)
		r.summary.Presence++
	}

	room := &r.ds.ChatRooms[roomIdx]
	models.Set(room, "participantIds", models.RefList(uniqueIds(r.userIds)))
	return nil
}

// avatar returns an independent copy of the user's avatar, or the default one.
func (r *augmentRun) avatar(user bson.D) interface{} {
	v, _ := models.Get(user, "avatar")
	if models.IsEmptyValue(v) {
		return r.synth.DefaultAvatar()
	}
	return models.CloneValue(v)
}

func (r *augmentRun) randomUser() primitive.ObjectID {
	return r.userIds[r.rnd.Intn(len(r.userIds))]
}

func (r *augmentRun) daysAfter(base time.Time, maxDays int) primitive.DateTime {
	return primitive.NewDateTimeFromTime(base.AddDate(0, 0, r.synth.IntBetween(0, maxDays)))
}

// sample draws up to n distinct elements of pool without replacement.
func sample(rnd *rand.Rand, pool []primitive.ObjectID, n int) []primitive.ObjectID {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]primitive.ObjectID, 0, n)
	for _, i := range rnd.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func uniqueIds(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	out := []primitive.ObjectID{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
