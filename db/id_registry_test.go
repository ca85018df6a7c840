package db

import (
	"bytes"
	"testing"

	"github.com/Kotlang/sampledataGo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegistrySeedsFromNestedReferences(t *testing.T) {
	user := mustOid(t, "68e061721329566a22d40001")
	pin := mustOid(t, "68e061721329566a22d40002")
	deep := mustOid(t, "68e061721329566a22d40003")
	session := mustOid(t, "68e061721329566a22d40004")

	ds := &models.Dataset{
		Users: []bson.D{{{Key: "_id", Value: user}}},
		Pins: []bson.D{{
			{Key: "_id", Value: pin},
			{Key: "audit", Value: bson.D{{Key: "history", Value: bson.A{bson.D{{Key: "by", Value: deep}}}}}},
		}},
		ChatPresence: []bson.D{{{Key: "sessionId", Value: session}}},
	}

	reg := NewIdRegistry(ds)

	assert.Equal(t, 4, reg.Len())
	for _, id := range []primitive.ObjectID{user, pin, deep, session} {
		assert.True(t, reg.Contains(id), id.Hex())
	}
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	taken := mustOid(t, "68e061721329566a22d40001")
	fresh := mustOid(t, "68e061721329566a22d40099")
	ds := &models.Dataset{Users: []bson.D{{{Key: "_id", Value: taken}}}}

	// the source yields the taken id twice before a fresh one
	src := bytes.NewReader(append(append(append([]byte{}, taken[:]...), taken[:]...), fresh[:]...))
	reg := NewIdRegistryWithSource(ds, src)

	assert.Equal(t, fresh, reg.Allocate())
	assert.True(t, reg.Contains(fresh))
}

func TestAllocateNeverRepeats(t *testing.T) {
	reg := NewIdRegistry(&models.Dataset{})
	seen := map[primitive.ObjectID]bool{}
	for i := 0; i < 5000; i++ {
		id := reg.Allocate()
		require.False(t, seen[id], "duplicate allocation %s", id.Hex())
		seen[id] = true
	}
	assert.Equal(t, 5000, reg.Len())
}

func TestAllocatePanicsWhenEntropyFails(t *testing.T) {
	reg := NewIdRegistryWithSource(nil, bytes.NewReader([]byte{1, 2, 3}))
	assert.Panics(t, func() { reg.Allocate() })
}
