package db

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/Kotlang/sampledataGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdRegistry knows every identifier in use across all collections and hands out fresh ones.
// It is built per run from the loaded snapshot.
type IdRegistry struct {
	used   map[primitive.ObjectID]struct{}
	source io.Reader
}

func NewIdRegistry(ds *models.Dataset) *IdRegistry {
	return NewIdRegistryWithSource(ds, rand.Reader)
}

// NewIdRegistryWithSource is NewIdRegistry with a caller supplied entropy source.
func NewIdRegistryWithSource(ds *models.Dataset, source io.Reader) *IdRegistry {
	r := &IdRegistry{
		used:   map[primitive.ObjectID]struct{}{},
		source: source,
	}
	if ds != nil {
		for _, name := range models.CollectionNames {
			for _, doc := range *ds.Collection(name) {
				r.Observe(doc)
			}
		}
	}
	return r
}

// Observe records every identifier found in v, at any nesting depth.
func (r *IdRegistry) Observe(v interface{}) {
	switch val := v.(type) {
	case primitive.ObjectID:
		r.used[val] = struct{}{}
	case *primitive.ObjectID:
		if val != nil {
			r.used[*val] = struct{}{}
		}
	case bson.D:
		if id, ok := models.Deref(val); ok {
			r.used[id] = struct{}{}
			return
		}
		for _, e := range val {
			r.Observe(e.Value)
		}
	case bson.M:
		for _, item := range val {
			r.Observe(item)
		}
	case bson.A:
		for _, item := range val {
			r.Observe(item)
		}
	case []interface{}:
		for _, item := range val {
			r.Observe(item)
		}
	}
}

// Allocate returns an identifier distinct from everything observed or allocated so far.
// Candidates are drawn from the entropy source and re-checked until unused. A failing
// entropy source is unrecoverable and panics, as crypto/rand does.
func (r *IdRegistry) Allocate() primitive.ObjectID {
	for {
		var candidate primitive.ObjectID
		if _, err := io.ReadFull(r.source, candidate[:]); err != nil {
			panic(fmt.Sprintf("identifier entropy source failed: %v", err))
		}
		if _, taken := r.used[candidate]; taken {
			continue
		}
		r.used[candidate] = struct{}{}
		return candidate
	}
}

func (r *IdRegistry) Contains(id primitive.ObjectID) bool {
	_, ok := r.used[id]
	return ok
}

func (r *IdRegistry) Len() int {
	return len(r.used)
}
