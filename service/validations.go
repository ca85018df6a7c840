package service

import (
	"strings"

	"github.com/Kotlang/sampledataGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// All dataset invariant checks live here. They run after recompute and before persist.

type referenceRule struct {
	collection models.CollectionName
	field      string
	target     models.CollectionName
	optional   bool
	many       bool
}

var referenceRules = []referenceRule{
	{collection: models.Pins, field: "creatorId", target: models.Users},
	{collection: models.Pins, field: "attendingUserIds", target: models.Users, optional: true, many: true},
	{collection: models.Pins, field: "attendeeWaitlistIds", target: models.Users, optional: true, many: true},
	{collection: models.Pins, field: "relatedPinIds", target: models.Pins, optional: true, many: true},
	{collection: models.Pins, field: "linkedChatRoomId", target: models.ChatRooms, optional: true},
	{collection: models.Bookmarks, field: "userId", target: models.Users},
	{collection: models.Bookmarks, field: "pinId", target: models.Pins},
	{collection: models.Bookmarks, field: "audit.createdBy", target: models.Users, optional: true},
	{collection: models.Bookmarks, field: "audit.updatedBy", target: models.Users, optional: true},
	{collection: models.Replies, field: "pinId", target: models.Pins},
	{collection: models.Replies, field: "authorId", target: models.Users},
	{collection: models.Replies, field: "parentReplyId", target: models.Replies, optional: true},
	{collection: models.Replies, field: "mentionedUserIds", target: models.Users, optional: true, many: true},
	{collection: models.Replies, field: "audit.createdBy", target: models.Users, optional: true},
	{collection: models.ChatMessages, field: "roomId", target: models.ChatRooms},
	{collection: models.ChatMessages, field: "authorId", target: models.Users},
	{collection: models.ChatMessages, field: "author._id", target: models.Users, optional: true},
	{collection: models.ChatMessages, field: "audit.createdBy", target: models.Users, optional: true},
	{collection: models.ChatMessages, field: "pinId", target: models.Pins, optional: true},
	{collection: models.ChatMessages, field: "replyToMessageId", target: models.ChatMessages, optional: true},
	{collection: models.ChatPresence, field: "roomId", target: models.ChatRooms},
	{collection: models.ChatPresence, field: "userId", target: models.Users},
	{collection: models.ChatRooms, field: "participantIds", target: models.Users, optional: true, many: true},
}

// ValidateDataset checks identifier uniqueness, reference resolution and bookmark pair
// uniqueness. The first violation is returned.
func ValidateDataset(ds *models.Dataset) error {
	index, err := indexRecordIds(ds)
	if err != nil {
		return err
	}
	if err := validateReferences(ds, index); err != nil {
		return err
	}
	return ValidateBookmarkPairs(ds.Bookmarks)
}

type recordIndex map[models.CollectionName]map[primitive.ObjectID]bool

// indexRecordIds collects every _id per collection and rejects ids used by two records.
func indexRecordIds(ds *models.Dataset) (recordIndex, error) {
	owners := map[primitive.ObjectID]models.CollectionName{}
	index := recordIndex{}
	for _, name := range models.CollectionNames {
		index[name] = map[primitive.ObjectID]bool{}
		for _, doc := range *ds.Collection(name) {
			id, ok := models.RecordId(doc)
			if !ok {
				continue
			}
			if owner, taken := owners[id]; taken {
				return nil, &DuplicateIdError{Id: id, First: owner, Second: name}
			}
			owners[id] = name
			index[name][id] = true
		}
	}
	return index, nil
}

func validateReferences(ds *models.Dataset, index recordIndex) error {
	for _, rule := range referenceRules {
		for _, doc := range *ds.Collection(rule.collection) {
			if err := rule.check(doc, index[rule.target]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (rule referenceRule) check(doc bson.D, targets map[primitive.ObjectID]bool) error {
	recordId, _ := models.RecordId(doc)
	fail := func(ref primitive.ObjectID) error {
		return &ResolutionError{
			Collection: rule.collection,
			RecordId:   recordId,
			Field:      rule.field,
			Target:     rule.target,
			Ref:        ref,
		}
	}

	value, present := lookupPath(doc, rule.field)
	if !present || value == nil {
		if rule.optional {
			return nil
		}
		return fail(primitive.NilObjectID)
	}

	if rule.many {
		var items bson.A
		switch arr := value.(type) {
		case bson.A:
			items = arr
		case []interface{}:
			items = arr
		default:
			return fail(primitive.NilObjectID)
		}
		for _, item := range items {
			id, ok := models.Deref(item)
			if !ok || !targets[id] {
				return fail(id)
			}
		}
		return nil
	}

	id, ok := models.Deref(value)
	if !ok || !targets[id] {
		return fail(id)
	}
	return nil
}

// lookupPath resolves a dotted field path through nested documents. A missing or non-document
// intermediate counts as absent.
func lookupPath(doc bson.D, path string) (interface{}, bool) {
	keys := strings.Split(path, ".")
	for _, key := range keys[:len(keys)-1] {
		sub, ok := models.GetDoc(doc, key)
		if !ok {
			return nil, false
		}
		doc = sub
	}
	return models.Get(doc, keys[len(keys)-1])
}

func ValidateBookmarkPairs(bookmarks []bson.D) error {
	seen := map[models.BookmarkPair]bool{}
	for _, bm := range bookmarks {
		pair, ok := models.GetBookmarkPair(bm)
		if !ok {
			continue
		}
		if seen[pair] {
			return &DuplicateBookmarkError{UserId: pair.UserId, PinId: pair.PinId}
		}
		seen[pair] = true
	}
	return nil
}
