package models

// UserStats are the derived per-user counters. They always equal the cardinality of the
// matching relations and are only ever written by the stats pass.
type UserStats struct {
	Bookmarks      int
	EventsHosted   int
	EventsAttended int
	Posts          int
}

// PinCounters are the derived per-pin counters.
type PinCounters struct {
	BookmarkCount int
	ReplyCount    int
}
