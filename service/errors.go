package service

import (
	"errors"
	"fmt"

	"github.com/Kotlang/sampledataGo/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoUsers is returned when a pass needs users to assign relations to and there are none.
var ErrNoUsers = errors.New("no users to assign relations to")

// ResolutionError is a reference that points at an identifier absent from its target collection.
type ResolutionError struct {
	Collection models.CollectionName
	RecordId   primitive.ObjectID
	Field      string
	Target     models.CollectionName
	Ref        primitive.ObjectID
}

func (e *ResolutionError) Error() string {
	ref := "<missing>"
	if !e.Ref.IsZero() {
		ref = e.Ref.Hex()
	}
	if e.RecordId.IsZero() {
		return fmt.Sprintf("%s.%s references %s %s which does not exist", e.Collection, e.Field, e.Target, ref)
	}
	return fmt.Sprintf("%s %s field %s references %s %s which does not exist",
		e.Collection, e.RecordId.Hex(), e.Field, e.Target, ref)
}

func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// DuplicateIdError is an identifier used as the key of two records.
type DuplicateIdError struct {
	Id     primitive.ObjectID
	First  models.CollectionName
	Second models.CollectionName
}

func (e *DuplicateIdError) Error() string {
	return fmt.Sprintf("identifier %s is used by records in both %s and %s", e.Id.Hex(), e.First, e.Second)
}

// DuplicateBookmarkError is a user bookmarking the same pin twice.
type DuplicateBookmarkError struct {
	UserId primitive.ObjectID
	PinId  primitive.ObjectID
}

func (e *DuplicateBookmarkError) Error() string {
	return fmt.Sprintf("user %s bookmarks pin %s more than once", e.UserId.Hex(), e.PinId.Hex())
}

// QuotaShortfall is a target whose quota could not be met because every source already
// links to it. It is reported, not fatal.
type QuotaShortfall struct {
	Target primitive.ObjectID
	Unmet  int
}

// ChatRoomNotFoundError is a configured chat room absent from the dataset.
type ChatRoomNotFoundError struct {
	RoomId string
}

func (e *ChatRoomNotFoundError) Error() string {
	return fmt.Sprintf("chat room %s not found", e.RoomId)
}
