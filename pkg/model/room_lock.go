package model

import "time"

// RoomLock is an advisory per-room lock held for the duration of an
// availability check plus booking insert. The lock is acquired by inserting
// a document with a deterministic _id; a duplicate key error means another
// request holds the room. ExpiresAt backs a TTL index so a crashed holder
// cannot wedge the room.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
