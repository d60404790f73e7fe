package model

// RoomCategory mirrors the `room_type` table. Categories define the
// nightly rate and the descriptive attributes shared by the rooms that
// reference them. A category cannot be deleted while rooms point at it.
//
// Fields:
//  ID          – primary key (room_type.category_id).
//  Name        – unique category name.
//  Description – marketing text.
//  Price       – nightly rate as a 2-decimal amount; zero when the
//                legacy data never set one.
//  Capacity    – maximum occupancy.
//  Bed         – bed configuration description.
//  Services    – included services description.
//  Image       – category image file name.
type RoomCategory struct {
	ID          uint64  `json:"category_id"`   // room_type.category_id
	Name        string  `json:"category_name"` // room_type.category_name
	Description string  `json:"description"`   // room_type.description
	Price       float64 `json:"price"`         // room_type.price (DECIMAL, nightly rate)
	Capacity    int     `json:"capacity"`      // room_type.capacity
	Bed         string  `json:"bed"`           // room_type.bed
	Services    string  `json:"services"`      // room_type.services
	Image       string  `json:"image"`         // room_type.image
}
