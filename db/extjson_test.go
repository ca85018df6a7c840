package db

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustOid(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func sampleCollection(t *testing.T) []bson.D {
	start := primitive.NewDateTimeFromTime(time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC))
	return []bson.D{
		{
			{Key: "_id", Value: mustOid(t, "68e061721329566a22d40007")},
			{Key: "type", Value: "event"},
			{Key: "title", Value: "Neon Kayak Sprint — café"},
			{Key: "coordinates", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{-118.1136, 33.7838}},
				{Key: "accuracy", Value: 7},
			}},
			{Key: "tagIds", Value: bson.A{}},
			{Key: "options", Value: bson.D{}},
			{Key: "linkedChatRoomId", Value: nil},
			{Key: "isActive", Value: true},
			{Key: "attendable", Value: false},
			{Key: "ratio", Value: 1.0},
			{Key: "tiny", Value: 0.00001},
			{Key: "emoji", Value: "\U0001F600"},
			{Key: "quote", Value: "say \"hi\"\n\tback\\slash"},
			{Key: "startDate", Value: start},
			{Key: "stats", Value: bson.D{
				{Key: "bookmarkCount", Value: int32(3)},
				{Key: "viewCount", Value: int64(3000000000)},
			}},
		},
		{
			{Key: "_id", Value: mustOid(t, "68e061721329566a22d474c2")},
			{Key: "participantIds", Value: []primitive.ObjectID{
				mustOid(t, "68e061721329566a22d40001"),
				mustOid(t, "68e061721329566a22d40002"),
			}},
			{Key: "participantCount", Value: 2},
		},
	}
}

func TestEncodeCollectionGolden(t *testing.T) {
	out, err := EncodeCollection(sampleCollection(t))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "sample_collection", out)
}

func TestDecodeEncodeIsByteIdentical(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample_collection.golden"))
	require.NoError(t, err)

	docs, err := DecodeCollection(raw)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	out, err := EncodeCollection(docs)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(out))
}

func TestDecodeCollectionTypesReferencesAndDates(t *testing.T) {
	raw := []byte(`[{"_id": {"$oid": "68e061721329566a22d40007"}, "joinedAt": {"$date": "2026-10-21T18:00:00.000Z"}, "nested": {"ids": [{"$oid": "68e061721329566a22d40001"}]}}]`)

	docs, err := DecodeCollection(raw)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, mustOid(t, "68e061721329566a22d40007"), doc[0].Value)

	joined, ok := doc[1].Value.(primitive.DateTime)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 21, 18, 0, 0, 0, time.UTC), joined.Time().UTC())

	nested, ok := doc[2].Value.(bson.D)
	require.True(t, ok)
	ids, ok := nested[0].Value.(bson.A)
	require.True(t, ok)
	assert.Equal(t, mustOid(t, "68e061721329566a22d40001"), ids[0])
}

func TestDecodeCollectionRejectsNonArray(t *testing.T) {
	_, err := DecodeCollection([]byte(`{"_id": 1}`))
	assert.Error(t, err)

	docs, err := DecodeCollection([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEncodeEmptyCollection(t *testing.T) {
	out, err := EncodeCollection(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestEncodeRejectsUnsupportedValues(t *testing.T) {
	_, err := EncodeCollection([]bson.D{{{Key: "ch", Value: make(chan int)}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedValue))
	assert.Contains(t, err.Error(), `field "ch"`)
}

func TestFormatFloatUsesShortestRepr(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{-118.1136, "-118.1136"},
		{33.78385, "33.78385"},
		{0.1, "0.1"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1.5e-07, "1.5e-07"},
		{1e16, "1e+16"},
		{123456789012345, "123456789012345.0"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatFloat(c.in), "formatting %v", c.in)
	}
}
