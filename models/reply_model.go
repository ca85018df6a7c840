package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreatorAudit struct {
	CreatedBy primitive.ObjectID `bson:"createdBy"`
}

// ReplyModel is one node of a pin's reply tree. Root replies have a nil ParentReplyId.
type ReplyModel struct {
	ReplyId          primitive.ObjectID   `bson:"_id"`
	PinId            primitive.ObjectID   `bson:"pinId"`
	ParentReplyId    *primitive.ObjectID  `bson:"parentReplyId"`
	AuthorId         primitive.ObjectID   `bson:"authorId"`
	Message          string               `bson:"message"`
	Attachments      bson.A               `bson:"attachments"`
	Reactions        bson.A               `bson:"reactions"`
	MentionedUserIds []primitive.ObjectID `bson:"mentionedUserIds"`
	Audit            CreatorAudit         `bson:"audit"`
	CreatedAt        primitive.DateTime   `bson:"createdAt"`
	UpdatedAt        primitive.DateTime   `bson:"updatedAt"`
}

func NewReply(id, pinId, authorId primitive.ObjectID, parent *primitive.ObjectID, message string) *ReplyModel {
	return &ReplyModel{
		ReplyId:          id,
		PinId:            pinId,
		ParentReplyId:    parent,
		AuthorId:         authorId,
		Message:          message,
		Attachments:      bson.A{},
		Reactions:        bson.A{},
		MentionedUserIds: []primitive.ObjectID{},
		Audit:            CreatorAudit{CreatedBy: authorId},
	}
}
