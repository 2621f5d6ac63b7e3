package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType is a catalogue row for one canonical room type. Rooms store the
// normalized type name directly; this table carries pricing and capacity
// defaults plus the display description.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string  `json:"typeName" gorm:"uniqueIndex;size:32"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"basePrice" gorm:"column:base_price"`
	MaxGuests   uint    `json:"maxGuests" gorm:"column:max_guests"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
