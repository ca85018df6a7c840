package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PinStats struct {
	BookmarkCount int `bson:"bookmarkCount"`
	ReplyCount    int `bson:"replyCount"`
	ShareCount    int `bson:"shareCount"`
	ViewCount     int `bson:"viewCount"`
}

type EventOptions struct {
	AllowBookmarks        bool   `bson:"allowBookmarks"`
	AllowShares           bool   `bson:"allowShares"`
	AllowReplies          bool   `bson:"allowReplies"`
	ShowAttendeeList      bool   `bson:"showAttendeeList"`
	Featured              bool   `bson:"featured"`
	VisibilityMode        string `bson:"visibilityMode"`
	ReminderMinutesBefore int    `bson:"reminderMinutesBefore"`
}

type DiscussionOptions struct {
	AllowBookmarks   bool   `bson:"allowBookmarks"`
	AllowShares      bool   `bson:"allowShares"`
	AllowReplies     bool   `bson:"allowReplies"`
	ShowAttendeeList bool   `bson:"showAttendeeList"`
	VisibilityMode   string `bson:"visibilityMode"`
	Featured         bool   `bson:"featured"`
}

// EventPinModel is a newly generated event pin. Counters are placeholders until the
// stats pass recomputes them.
type EventPinModel struct {
	PinId                  primitive.ObjectID   `bson:"_id"`
	Type                   string               `bson:"type"`
	CreatorId              primitive.ObjectID   `bson:"creatorId"`
	Title                  string               `bson:"title"`
	Description            string               `bson:"description"`
	Coordinates            GeoPoint             `bson:"coordinates"`
	Address                PreciseAddress       `bson:"address"`
	ProximityRadiusMeters  int                  `bson:"proximityRadiusMeters"`
	Photos                 []Photo              `bson:"photos"`
	CoverPhoto             Photo                `bson:"coverPhoto"`
	TagIds                 []primitive.ObjectID `bson:"tagIds"`
	Tags                   []string             `bson:"tags"`
	Options                EventOptions         `bson:"options"`
	RelatedPinIds          []primitive.ObjectID `bson:"relatedPinIds"`
	LinkedLocationId       *primitive.ObjectID  `bson:"linkedLocationId"`
	LinkedChatRoomId       *primitive.ObjectID  `bson:"linkedChatRoomId"`
	Visibility             string               `bson:"visibility"`
	IsActive               bool                 `bson:"isActive"`
	AttendingUserIds       []primitive.ObjectID `bson:"attendingUserIds"`
	AttendeeWaitlistIds    []primitive.ObjectID `bson:"attendeeWaitlistIds"`
	Attendable             bool                 `bson:"attendable"`
	ParticipantLimit       int                  `bson:"participantLimit"`
	ParticipantCount       int                  `bson:"participantCount"`
	StartDate              primitive.DateTime   `bson:"startDate"`
	EndDate                primitive.DateTime   `bson:"endDate"`
	Stats                  PinStats             `bson:"stats"`
	BookmarkCount          int                  `bson:"bookmarkCount"`
	ReplyCount             int                  `bson:"replyCount"`
	DescriptionHasMarkdown bool                 `bson:"descriptionHasMarkdown"`
	CreatedAt              primitive.DateTime   `bson:"createdAt"`
	UpdatedAt              primitive.DateTime   `bson:"updatedAt"`
	ExpiresAt              primitive.DateTime   `bson:"expiresAt"`
}

type DiscussionPinModel struct {
	PinId                 primitive.ObjectID   `bson:"_id"`
	Type                  string               `bson:"type"`
	CreatorId             primitive.ObjectID   `bson:"creatorId"`
	Title                 string               `bson:"title"`
	Description           string               `bson:"description"`
	Coordinates           GeoPoint             `bson:"coordinates"`
	ApproximateAddress    ApproximateAddress   `bson:"approximateAddress"`
	ProximityRadiusMeters int                  `bson:"proximityRadiusMeters"`
	Photos                []Photo              `bson:"photos"`
	CoverPhoto            Photo                `bson:"coverPhoto"`
	TagIds                []primitive.ObjectID `bson:"tagIds"`
	Tags                  []string             `bson:"tags"`
	Options               DiscussionOptions    `bson:"options"`
	RelatedPinIds         []primitive.ObjectID `bson:"relatedPinIds"`
	LinkedLocationId      *primitive.ObjectID  `bson:"linkedLocationId"`
	LinkedChatRoomId      *primitive.ObjectID  `bson:"linkedChatRoomId"`
	Visibility            string               `bson:"visibility"`
	IsActive              bool                 `bson:"isActive"`
	ParticipantCount      int                  `bson:"participantCount"`
	AutoDelete            bool                 `bson:"autoDelete"`
	Stats                 PinStats             `bson:"stats"`
	BookmarkCount         int                  `bson:"bookmarkCount"`
	ReplyCount            int                  `bson:"replyCount"`
	CreatedAt             primitive.DateTime   `bson:"createdAt"`
	UpdatedAt             primitive.DateTime   `bson:"updatedAt"`
	ExpiresAt             primitive.DateTime   `bson:"expiresAt"`
}

// IsEvent reports whether a loaded pin document is an event pin.
func IsEvent(pin bson.D) bool {
	return GetString(pin, "type") == PinTypeEvent
}
