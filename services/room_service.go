package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"frontdesk-backend/models"
)

// RoomService is the room directory: CRUD plus manual status edits (e.g.
// housekeeping parking a room in cleaning). Status flips that belong to a
// booking transition never go through here.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) Create(room models.Room) (models.Room, error) {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return room, fmt.Errorf("%w: roomNumber required", ErrValidation)
	}
	room.Type = models.NormalizeRoomType(room.Type)
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	if !models.ValidRoomStatus(room.Status) {
		return room, fmt.Errorf("%w: unknown room status %q", ErrValidation, room.Status)
	}
	room.CurrentReservation = nil
	room.IsActive = true
	if err := s.DB.Create(&room).Error; err != nil {
		return room, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// RoomFilter narrows GetAll results.
type RoomFilter struct {
	Status string
	Type   string
}

func (s *RoomService) GetAll(filter RoomFilter) ([]models.Room, error) {
	q := s.DB.Model(&models.Room{}).Order("room_number ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", models.NormalizeRoomType(filter.Type))
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) GetByNumber(roomNumber string) (models.Room, error) {
	var room models.Room
	err := s.DB.Where("room_number = ?", roomNumber).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return room, ErrRoomNotFound
	}
	return room, err
}

// UpdateRoomInput carries a manual edit. Nil fields keep their value.
type UpdateRoomInput struct {
	Type         *string  `json:"type"`
	Status       *string  `json:"status"`
	Floor        *string  `json:"floor"`
	Price        *float64 `json:"price"`
	MaxOccupancy *int     `json:"maxOccupancy"`
	Description  *string  `json:"description"`
	IsActive     *bool    `json:"isActive"`
}

func (s *RoomService) Update(roomNumber string, in UpdateRoomInput) (models.Room, error) {
	room, err := s.GetByNumber(roomNumber)
	if err != nil {
		return room, err
	}

	updates := map[string]interface{}{}
	if in.Type != nil {
		updates["type"] = models.NormalizeRoomType(*in.Type)
	}
	if in.Status != nil {
		if !models.ValidRoomStatus(*in.Status) {
			return room, fmt.Errorf("%w: unknown room status %q", ErrValidation, *in.Status)
		}
		// An occupied room belongs to a checked-in booking; yanking it back
		// by hand would break the booking/room pairing.
		if room.Status == models.RoomStatusOccupied && *in.Status != models.RoomStatusOccupied {
			return room, ErrInvalidTransition
		}
		updates["status"] = *in.Status
	}
	if in.Floor != nil {
		updates["floor"] = *in.Floor
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.MaxOccupancy != nil {
		updates["max_occupancy"] = *in.MaxOccupancy
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return room, nil
	}
	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return room, fmt.Errorf("failed to update room: %w", err)
	}
	return s.GetByNumber(roomNumber)
}

// Delete soft-deletes a room. Rooms holding a checked-in booking are refused.
func (s *RoomService) Delete(roomNumber string) error {
	room, err := s.GetByNumber(roomNumber)
	if err != nil {
		return err
	}
	if room.Status == models.RoomStatusOccupied {
		return ErrInvalidTransition
	}
	return s.DB.Delete(&room).Error
}

// RoomTypes lists the seeded room type catalogue.
func (s *RoomService) RoomTypes() ([]models.RoomType, error) {
	var types []models.RoomType
	if err := s.DB.Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (s *RoomService) CreateRoomType(rt models.RoomType) (models.RoomType, error) {
	rt.TypeName = models.NormalizeRoomType(rt.TypeName)
	if err := s.DB.Create(&rt).Error; err != nil {
		return rt, fmt.Errorf("failed to create room type: %w", err)
	}
	return rt, nil
}
