package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CollectionName string

const (
	Users        CollectionName = "users"
	Pins         CollectionName = "pins"
	Bookmarks    CollectionName = "bookmarks"
	Replies      CollectionName = "replies"
	ChatMessages CollectionName = "proximityChatMessages"
	ChatPresence CollectionName = "proximityChatPresence"
	ChatRooms    CollectionName = "proximityChatRooms"
)

// CollectionNames lists every collection in load and persist order.
var CollectionNames = []CollectionName{Users, Pins, Bookmarks, Replies, ChatMessages, ChatPresence, ChatRooms}

const (
	PinTypeEvent      = "event"
	PinTypeDiscussion = "discussion"
)

// Dataset is the in-memory snapshot of every collection.
type Dataset struct {
	Users        []bson.D
	Pins         []bson.D
	Bookmarks    []bson.D
	Replies      []bson.D
	ChatMessages []bson.D
	ChatPresence []bson.D
	ChatRooms    []bson.D
}

// Collection returns a pointer to the named collection's records.
func (d *Dataset) Collection(name CollectionName) *[]bson.D {
	switch name {
	case Users:
		return &d.Users
	case Pins:
		return &d.Pins
	case Bookmarks:
		return &d.Bookmarks
	case Replies:
		return &d.Replies
	case ChatMessages:
		return &d.ChatMessages
	case ChatPresence:
		return &d.ChatPresence
	case ChatRooms:
		return &d.ChatRooms
	}
	return nil
}

// UserIds returns the user identifiers in collection order.
func (d *Dataset) UserIds() []primitive.ObjectID {
	return recordIds(d.Users)
}

// IndexOf returns the position of the record with the given _id, or -1.
func IndexOf(records []bson.D, id primitive.ObjectID) int {
	for i, rec := range records {
		if rid, ok := RecordId(rec); ok && rid == id {
			return i
		}
	}
	return -1
}

func recordIds(records []bson.D) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(records))
	for _, rec := range records {
		if id, ok := RecordId(rec); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
