package service

import (
	"testing"

	"github.com/Kotlang/sampledataGo/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockSampleDb struct {
	mock.Mock
}

func (m *mockSampleDb) Load() (*models.Dataset, error) {
	args := m.Called()
	ds, _ := args.Get(0).(*models.Dataset)
	return ds, args.Error(1)
}

func (m *mockSampleDb) Persist(ds *models.Dataset) error {
	return m.Called(ds).Error(0)
}

func userDoc(id primitive.ObjectID, name string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: name},
		{Key: "displayName", Value: "User " + name},
		{Key: "avatar", Value: nil},
		{Key: "stats", Value: nil},
	}
}

func eventDoc(id, creator primitive.ObjectID, attendees ...primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "type", Value: models.PinTypeEvent},
		{Key: "creatorId", Value: creator},
		{Key: "title", Value: "Seed Event"},
		{Key: "attendingUserIds", Value: models.RefList(attendees)},
		{Key: "linkedChatRoomId", Value: nil},
	}
}

func discussionDoc(id, creator primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "type", Value: models.PinTypeDiscussion},
		{Key: "creatorId", Value: creator},
		{Key: "title", Value: "Seed Discussion"},
	}
}

func bookmarkDoc(id, user, pin primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: user},
		{Key: "pinId", Value: pin},
	}
}

func replyDoc(id, pin, author primitive.ObjectID, parent *primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "pinId", Value: pin},
		{Key: "parentReplyId", Value: models.NullableRef(parent)},
		{Key: "authorId", Value: author},
	}
}

func roomDoc(id primitive.ObjectID, participants ...primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Grid Room"},
		{Key: "participantIds", Value: models.RefList(participants)},
	}
}

// usersDataset has n users, one chat room and nothing else.
func usersDataset(t *testing.T, n int, roomHex string) *models.Dataset {
	t.Helper()
	roomId, err := primitive.ObjectIDFromHex(roomHex)
	require.NoError(t, err)

	ds := &models.Dataset{
		Users:        []bson.D{},
		Pins:         []bson.D{},
		Bookmarks:    []bson.D{},
		Replies:      []bson.D{},
		ChatMessages: []bson.D{},
		ChatPresence: []bson.D{},
		ChatRooms:    []bson.D{roomDoc(roomId)},
	}
	for i, id := range newIds(n) {
		ds.Users = append(ds.Users, userDoc(id, string(rune('a'+i))))
	}
	return ds
}

func intField(t *testing.T, doc bson.D, key string) int {
	t.Helper()
	v, ok := models.Get(doc, key)
	require.True(t, ok, "missing %s", key)
	n, ok := v.(int)
	require.True(t, ok, "%s is %T", key, v)
	return n
}

func statsField(t *testing.T, doc bson.D, key string) int {
	t.Helper()
	stats, ok := models.GetDoc(doc, "stats")
	require.True(t, ok, "missing stats")
	return intField(t, stats, key)
}
