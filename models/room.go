package models

import (
	"strings"

	"gorm.io/gorm"
)

// Room statuses. A room is occupied iff CurrentReservation points at a
// checked-in booking; cleaning is the transient post-checkout state.
const (
	RoomStatusAvailable = "available"
	RoomStatusOccupied  = "occupied"
	RoomStatusCleaning  = "cleaning"
)

// Canonical room types.
const (
	RoomTypeStandard = "standard"
	RoomTypeDeluxe   = "deluxe"
	RoomTypeSuite    = "suite"
	RoomTypeFamily   = "family"
)

type Room struct {
	gorm.Model

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`

	Type   string `json:"type" gorm:"size:32;index"`
	Status string `json:"status" gorm:"size:32;default:available"`

	// Back-reference to the booking currently checked into this room.
	// Never an ownership edge; bookings reference rooms by number.
	CurrentReservation *string `json:"currentReservation,omitempty" gorm:"column:current_reservation;size:32"`

	Floor        string  `json:"floor" gorm:"type:varchar(10)"`
	Price        float64 `json:"price"`
	MaxOccupancy int     `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Description  string  `json:"description" gorm:"type:text"`
	IsActive     bool    `json:"isActive" gorm:"column:is_active;default:true"`
}

// roomTypeAliases maps free-text labels seen in imported room data to
// canonical types. Unrecognized labels fall back to standard.
var roomTypeAliases = map[string]string{
	"standard":        RoomTypeStandard,
	"standard room":   RoomTypeStandard,
	"single":          RoomTypeStandard,
	"double":          RoomTypeStandard,
	"deluxe":          RoomTypeDeluxe,
	"deluxe room":     RoomTypeDeluxe,
	"deluxe king":     RoomTypeDeluxe,
	"deluxe twin":     RoomTypeDeluxe,
	"superior":        RoomTypeDeluxe,
	"suite":           RoomTypeSuite,
	"junior suite":    RoomTypeSuite,
	"executive suite": RoomTypeSuite,
	"family":          RoomTypeFamily,
	"family room":     RoomTypeFamily,
	"connecting":      RoomTypeFamily,
}

// NormalizeRoomType resolves a free-text room type label to a canonical type.
func NormalizeRoomType(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return RoomTypeStandard
	}
	if t, ok := roomTypeAliases[key]; ok {
		return t
	}
	return RoomTypeStandard
}

// ValidRoomStatus reports whether s is one of the known room statuses.
func ValidRoomStatus(s string) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusCleaning:
		return true
	}
	return false
}
