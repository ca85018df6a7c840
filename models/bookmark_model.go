package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EditorAudit struct {
	CreatedBy primitive.ObjectID `bson:"createdBy"`
	UpdatedBy primitive.ObjectID `bson:"updatedBy"`
}

type BookmarkModel struct {
	BookmarkId   primitive.ObjectID   `bson:"_id"`
	UserId       primitive.ObjectID   `bson:"userId"`
	PinId        primitive.ObjectID   `bson:"pinId"`
	CollectionId *primitive.ObjectID  `bson:"collectionId"`
	Notes        string               `bson:"notes"`
	ReminderAt   *primitive.DateTime  `bson:"reminderAt"`
	TagIds       []primitive.ObjectID `bson:"tagIds"`
	Audit        EditorAudit          `bson:"audit"`
	CreatedAt    primitive.DateTime   `bson:"createdAt"`
	UpdatedAt    primitive.DateTime   `bson:"updatedAt"`
}

func NewBookmark(id, userId, pinId primitive.ObjectID, notes string, stamp primitive.DateTime) *BookmarkModel {
	return &BookmarkModel{
		BookmarkId: id,
		UserId:     userId,
		PinId:      pinId,
		Notes:      notes,
		TagIds:     []primitive.ObjectID{},
		Audit:      EditorAudit{CreatedBy: userId, UpdatedBy: userId},
		CreatedAt:  stamp,
		UpdatedAt:  stamp,
	}
}

// BookmarkPair identifies a (user, pin) bookmark relation. At most one bookmark exists per pair.
type BookmarkPair struct {
	UserId primitive.ObjectID
	PinId  primitive.ObjectID
}

// GetBookmarkPair returns the pair of a loaded bookmark document.
func GetBookmarkPair(bookmark bson.D) (BookmarkPair, bool) {
	userId, okUser := DerefField(bookmark, "userId")
	pinId, okPin := DerefField(bookmark, "pinId")
	if !okUser || !okPin {
		return BookmarkPair{}, false
	}
	return BookmarkPair{UserId: userId, PinId: pinId}, true
}
