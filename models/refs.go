package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref wraps an identifier for a reference field. The store serializes it as {"$oid": hex}.
func Ref(id primitive.ObjectID) interface{} {
	return id
}

// NullableRef is Ref for optional relations; nil becomes null.
func NullableRef(id *primitive.ObjectID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func RefList(ids []primitive.ObjectID) bson.A {
	refs := bson.A{}
	for _, id := range ids {
		refs = append(refs, Ref(id))
	}
	return refs
}

// Deref unwraps a reference value. Absent, null and malformed references report false.
func Deref(v interface{}) (primitive.ObjectID, bool) {
	switch ref := v.(type) {
	case primitive.ObjectID:
		return ref, true
	case *primitive.ObjectID:
		if ref == nil {
			return primitive.NilObjectID, false
		}
		return *ref, true
	case bson.D:
		if len(ref) != 1 || ref[0].Key != "$oid" {
			return primitive.NilObjectID, false
		}
		hex, ok := ref[0].Value.(string)
		if !ok {
			return primitive.NilObjectID, false
		}
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return primitive.NilObjectID, false
		}
		return id, true
	}
	return primitive.NilObjectID, false
}

// DerefField unwraps the reference stored under key.
func DerefField(doc bson.D, key string) (primitive.ObjectID, bool) {
	v, _ := Get(doc, key)
	return Deref(v)
}

// DerefList unwraps every resolvable reference of the array under key.
func DerefList(doc bson.D, key string) []primitive.ObjectID {
	ids := []primitive.ObjectID{}
	for _, v := range GetArray(doc, key) {
		if id, ok := Deref(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// RecordId returns the _id of a record.
func RecordId(doc bson.D) (primitive.ObjectID, bool) {
	return DerefField(doc, "_id")
}
