package service

import (
	"errors"
	"testing"

	"github.com/Kotlang/sampledataGo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testRoomHex = "68e061721329566a22d40007"

// statsDataset: users a, b, c; event E hosted by a with attendees b, c, b;
// discussion D by c; bookmarks (b,E) (c,E) (a,D); replies on E by b and c.
func statsDataset(t *testing.T) (*models.Dataset, []primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) {
	ds := usersDataset(t, 3, testRoomHex)
	users := ds.UserIds()
	event, discussion := primitive.NewObjectID(), primitive.NewObjectID()

	ds.Pins = []bson.D{
		eventDoc(event, users[0], users[1], users[2], users[1]),
		discussionDoc(discussion, users[2]),
	}
	ds.Bookmarks = []bson.D{
		bookmarkDoc(primitive.NewObjectID(), users[1], event),
		bookmarkDoc(primitive.NewObjectID(), users[2], event),
		bookmarkDoc(primitive.NewObjectID(), users[0], discussion),
	}
	root := primitive.NewObjectID()
	ds.Replies = []bson.D{
		replyDoc(root, event, users[1], nil),
		replyDoc(primitive.NewObjectID(), event, users[2], &root),
	}
	ds.ChatRooms = []bson.D{roomDoc(ds.ChatRooms[0][0].Value.(primitive.ObjectID), users[0], users[0], users[1])}
	return ds, users, event, discussion
}

func TestRecomputePinCounters(t *testing.T) {
	ds, _, _, _ := statsDataset(t)

	report := NewStatsService(nil).Recompute(ds)
	assert.Equal(t, RecomputeReport{Users: 3, Pins: 2, ChatRooms: 1}, report)

	event, discussion := ds.Pins[0], ds.Pins[1]
	assert.Equal(t, 2, intField(t, event, "bookmarkCount"))
	assert.Equal(t, 2, intField(t, event, "replyCount"))
	assert.Equal(t, 2, statsField(t, event, "bookmarkCount"))
	assert.Equal(t, 2, statsField(t, event, "replyCount"))
	assert.Equal(t, 1, intField(t, discussion, "bookmarkCount"))
	assert.Equal(t, 0, intField(t, discussion, "replyCount"))

	// duplicate attendee collapsed, first occurrences kept in order
	assert.Len(t, models.GetArray(event, "attendingUserIds"), 2)
	assert.Equal(t, 2, intField(t, event, "participantCount"))
	_, hasCount := models.Get(discussion, "participantCount")
	assert.False(t, hasCount)
}

func TestRecomputeUserStats(t *testing.T) {
	ds, _, _, _ := statsDataset(t)
	NewStatsService(nil).Recompute(ds)

	a, b, c := ds.Users[0], ds.Users[1], ds.Users[2]
	assert.Equal(t, 1, statsField(t, a, "bookmarks"))
	assert.Equal(t, 1, statsField(t, a, "eventsHosted"))
	assert.Equal(t, 0, statsField(t, a, "eventsAttended"))
	assert.Equal(t, 0, statsField(t, a, "posts"))

	assert.Equal(t, 1, statsField(t, b, "bookmarks"))
	assert.Equal(t, 1, statsField(t, b, "eventsAttended"))
	assert.Equal(t, 1, statsField(t, b, "posts"))

	assert.Equal(t, 0, statsField(t, c, "eventsHosted"))
	assert.Equal(t, 1, statsField(t, c, "posts"))
}

func TestRecomputeChatRoomParticipants(t *testing.T) {
	ds, users, _, _ := statsDataset(t)
	NewStatsService(nil).Recompute(ds)

	room := ds.ChatRooms[0]
	assert.Equal(t, []primitive.ObjectID{users[0], users[1]}, models.DerefList(room, "participantIds"))
	assert.Equal(t, 2, intField(t, room, "participantCount"))
}

func TestRecomputeKeepsUnknownStatsFields(t *testing.T) {
	ds, _, _, _ := statsDataset(t)
	models.Set(&ds.Users[0], "stats", bson.D{{Key: "followers", Value: int32(7)}, {Key: "posts", Value: int32(99)}})

	NewStatsService(nil).Recompute(ds)

	stats, ok := models.GetDoc(ds.Users[0], "stats")
	require.True(t, ok)
	assert.Equal(t, "followers", stats[0].Key)
	assert.Equal(t, int32(7), stats[0].Value)
	assert.Equal(t, "posts", stats[1].Key)
	assert.Equal(t, 0, stats[1].Value)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	ds, _, _, _ := statsDataset(t)
	svc := NewStatsService(nil)

	svc.Recompute(ds)
	once := cloneDataset(ds)
	svc.Recompute(ds)

	assert.Equal(t, once, ds)
}

func TestRecomputeAfterExternalEdit(t *testing.T) {
	ds, users, event, _ := statsDataset(t)
	svc := NewStatsService(nil)
	svc.Recompute(ds)

	// user c already bookmarks E; a new bookmark by a changes only a and E
	ds.Bookmarks = append(ds.Bookmarks, bookmarkDoc(primitive.NewObjectID(), users[0], event))
	svc.Recompute(ds)

	assert.Equal(t, 3, intField(t, ds.Pins[0], "bookmarkCount"))
	assert.Equal(t, 2, statsField(t, ds.Users[0], "bookmarks"))
	assert.Equal(t, 1, statsField(t, ds.Users[2], "bookmarks"))
}

func TestStatsRunValidatesAndPersists(t *testing.T) {
	ds, _, _, _ := statsDataset(t)
	store := &mockSampleDb{}
	store.On("Load").Return(ds, nil)
	store.On("Persist", ds).Return(nil)

	report, err := NewStatsService(store).Run()

	require.NoError(t, err)
	assert.Equal(t, 3, report.Users)
	store.AssertExpectations(t)
}

func TestStatsRunDoesNotPersistInvalidDataset(t *testing.T) {
	ds, _, _, _ := statsDataset(t)
	ds.Bookmarks = append(ds.Bookmarks, bookmarkDoc(primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()))
	store := &mockSampleDb{}
	store.On("Load").Return(ds, nil)

	_, err := NewStatsService(store).Run()

	assert.True(t, IsResolutionError(err))
	store.AssertNotCalled(t, "Persist", mock.Anything)
}

func TestStatsRunPropagatesLoadError(t *testing.T) {
	store := &mockSampleDb{}
	store.On("Load").Return(nil, errors.New("boom"))

	_, err := NewStatsService(store).Run()

	assert.EqualError(t, err, "boom")
}

func cloneDataset(ds *models.Dataset) *models.Dataset {
	out := &models.Dataset{}
	for _, name := range models.CollectionNames {
		src := *ds.Collection(name)
		dst := make([]bson.D, 0, len(src))
		for _, doc := range src {
			dst = append(dst, models.CloneValue(doc).(bson.D))
		}
		*out.Collection(name) = dst
	}
	return out
}
