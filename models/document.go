package models

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Get returns the value stored under key in doc.
func Get(doc bson.D, key string) (interface{}, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// GetString returns the string stored under key, or "" when absent or not a string.
func GetString(doc bson.D, key string) string {
	v, _ := Get(doc, key)
	s, _ := v.(string)
	return s
}

// GetDoc returns the embedded document under key. Null and missing values yield nil, false.
func GetDoc(doc bson.D, key string) (bson.D, bool) {
	v, ok := Get(doc, key)
	if !ok {
		return nil, false
	}
	switch sub := v.(type) {
	case bson.D:
		return sub, true
	case bson.M:
		d := bson.D{}
		for k, val := range sub {
			d = append(d, bson.E{Key: k, Value: val})
		}
		return d, true
	}
	return nil, false
}

// GetArray returns the array under key. Null and missing values yield nil.
func GetArray(doc bson.D, key string) bson.A {
	v, _ := Get(doc, key)
	switch arr := v.(type) {
	case bson.A:
		return arr
	case []interface{}:
		return bson.A(arr)
	}
	return nil
}

// Set overwrites key in place, keeping its position, or appends it when absent.
func Set(doc *bson.D, key string, value interface{}) {
	for i := range *doc {
		if (*doc)[i].Key == key {
			(*doc)[i].Value = value
			return
		}
	}
	*doc = append(*doc, bson.E{Key: key, Value: value})
}

// SetIn writes key inside the embedded document parent, creating parent when it is
// missing or null.
func SetIn(doc *bson.D, parent, key string, value interface{}) {
	sub, ok := GetDoc(*doc, parent)
	if !ok {
		sub = bson.D{}
	}
	Set(&sub, key, value)
	Set(doc, parent, sub)
}

// ToDocument converts a bson-tagged struct into an ordered document following struct field order.
func ToDocument(v interface{}) (bson.D, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CloneValue deep copies documents and arrays so the copy can be mutated independently.
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.D:
		out := make(bson.D, 0, len(val))
		for _, e := range val {
			out = append(out, bson.E{Key: e.Key, Value: CloneValue(e.Value)})
		}
		return out
	case bson.M:
		out := bson.M{}
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case bson.A:
		out := make(bson.A, 0, len(val))
		for _, item := range val {
			out = append(out, CloneValue(item))
		}
		return out
	case []interface{}:
		return CloneValue(bson.A(val))
	}
	return v
}

// IsEmptyValue reports falsy payloads: nil, "", and empty documents or arrays.
func IsEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bson.D:
		return len(val) == 0
	case bson.M:
		return len(val) == 0
	case bson.A:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	}
	return false
}
