package model

import "time"

// Room belongs to a hotel. Available is a hotel-side takedown flag,
// independent of calendar occupancy; the booking engine reads rooms but
// never mutates them.
type Room struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID      string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	NightlyPrice float64   `json:"nightly_price" bson:"nightly_price" validate:"gte=0"`
	Capacity     int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	Available    bool      `json:"available" bson:"available"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type RoomUpdate struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	NightlyPrice *float64 `json:"nightly_price,omitempty" validate:"omitempty,gte=0"`
	Capacity     *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	Available    *bool    `json:"available,omitempty"`
}
