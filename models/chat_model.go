package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile is the identity part of a user document used for denormalized snapshots.
type UserProfile struct {
	Id          primitive.ObjectID
	Username    string
	DisplayName string
}

func GetUserProfile(user bson.D) UserProfile {
	id, _ := RecordId(user)
	return UserProfile{
		Id:          id,
		Username:    GetString(user, "username"),
		DisplayName: GetString(user, "displayName"),
	}
}

// AuthorSnapshot is the author identity copied into a chat message at send time.
type AuthorSnapshot struct {
	Id          primitive.ObjectID `bson:"_id"`
	Username    string             `bson:"username"`
	DisplayName string             `bson:"displayName"`
	Avatar      interface{}        `bson:"avatar"`
}

type ChatMessageModel struct {
	MessageId        primitive.ObjectID  `bson:"_id"`
	RoomId           primitive.ObjectID  `bson:"roomId"`
	PinId            *primitive.ObjectID `bson:"pinId"`
	AuthorId         primitive.ObjectID  `bson:"authorId"`
	ReplyToMessageId *primitive.ObjectID `bson:"replyToMessageId"`
	Message          string              `bson:"message"`
	Coordinates      GeoPoint            `bson:"coordinates"`
	Attachments      []ImageAttachment   `bson:"attachments"`
	Audit            CreatorAudit        `bson:"audit"`
	CreatedAt        primitive.DateTime  `bson:"createdAt"`
	UpdatedAt        primitive.DateTime  `bson:"updatedAt"`
	Author           AuthorSnapshot      `bson:"author"`
	AuthorAvatar     interface{}         `bson:"authorAvatar"`
}

type ChatPresenceModel struct {
	PresenceId   primitive.ObjectID `bson:"_id"`
	RoomId       primitive.ObjectID `bson:"roomId"`
	UserId       primitive.ObjectID `bson:"userId"`
	SessionId    primitive.ObjectID `bson:"sessionId"`
	JoinedAt     primitive.DateTime `bson:"joinedAt"`
	LastActiveAt primitive.DateTime `bson:"lastActiveAt"`
}
