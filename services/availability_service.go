package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"frontdesk-backend/models"
)

// AvailabilityService answers "can this room take this stay?" questions over
// the current booking set. It is a pure reader; the paired writes happen in
// BookingService transactions, which re-run the same check against the
// transaction snapshot before committing an assignment.
type AvailabilityService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAvailabilityService(db *gorm.DB, log *zap.Logger) *AvailabilityService {
	return &AvailabilityService{DB: db, Log: log}
}

// CheckDateOverlap reports whether two half-open stay ranges [aIn, aOut) and
// [bIn, bOut) overlap. Touching ranges (one stay's checkout equals the
// other's check-in) do not conflict, enabling same-day turnover.
func CheckDateOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// IsRoomAvailable reports whether assigning roomNumber for [checkIn,
// checkOut) would conflict with any active booking, excluding
// excludeBookingID (pass the booking's own id when editing it). Missing
// inputs and read failures both yield false: under-booking is recoverable at
// the desk, double-booking is not.
func (s *AvailabilityService) IsRoomAvailable(roomNumber string, checkIn, checkOut time.Time, excludeBookingID string) bool {
	if strings.TrimSpace(roomNumber) == "" || checkIn.IsZero() || checkOut.IsZero() {
		return false
	}
	ok, err := s.roomAvailable(s.DB, roomNumber, checkIn, checkOut, excludeBookingID)
	if err != nil {
		s.Log.Warn("availability read failed, treating room as unavailable",
			zap.String("room", roomNumber), zap.Error(err))
		return false
	}
	return ok
}

// IsRoomAvailableTx runs the same check against a transaction snapshot.
// Errors propagate so the surrounding transaction aborts instead of
// committing on stale data.
func (s *AvailabilityService) IsRoomAvailableTx(tx *gorm.DB, roomNumber string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	return s.roomAvailable(tx, roomNumber, checkIn, checkOut, excludeBookingID)
}

func (s *AvailabilityService) roomAvailable(db *gorm.DB, roomNumber string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	var room models.Room
	err := db.Where("room_number = ? AND is_active = ?", roomNumber, true).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	// A room manually parked in cleaning (or still occupied) is unavailable
	// even when no booking conflicts on dates.
	if room.Status != models.RoomStatusAvailable {
		return false, nil
	}
	return s.noDateConflict(db, roomNumber, checkIn, checkOut, excludeBookingID)
}

// noDateConflict checks only the booking date ranges, ignoring the room's
// own status field. Used for edits where the booking keeps the room it
// already occupies.
func (s *AvailabilityService) noDateConflict(db *gorm.DB, roomNumber string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	var bookings []models.Booking
	if err := db.
		Where("room_number = ? AND status IN ?", roomNumber, models.ActiveBookingStatuses).
		Find(&bookings).Error; err != nil {
		return false, err
	}
	for _, b := range bookings {
		if excludeBookingID != "" && b.BookingID == excludeBookingID {
			continue
		}
		if CheckDateOverlap(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return false, nil
		}
	}
	return true, nil
}

// ListCandidateRooms returns the rooms that can take a stay of the given
// type over [checkIn, checkOut): active, in available status, and free of
// date conflicts (excluding the booking being edited, if any). Ordered by
// room number so auto-selection is deterministic.
func (s *AvailabilityService) ListCandidateRooms(roomType string, checkIn, checkOut time.Time, excludeBookingID string) ([]models.Room, error) {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}

	normalized := models.NormalizeRoomType(roomType)
	var rooms []models.Room
	if err := s.DB.
		Where("type = ? AND status = ? AND is_active = ?", normalized, models.RoomStatusAvailable, true).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []models.Room{}, nil
	}

	numbers := make([]string, 0, len(rooms))
	for _, r := range rooms {
		numbers = append(numbers, r.RoomNumber)
	}

	var bookings []models.Booking
	if err := s.DB.
		Where("room_number IN ? AND status IN ?", numbers, models.ActiveBookingStatuses).
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	conflicted := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if excludeBookingID != "" && b.BookingID == excludeBookingID {
			continue
		}
		if b.RoomNumber == nil {
			continue
		}
		if CheckDateOverlap(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			conflicted[*b.RoomNumber] = true
		}
	}

	candidates := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if !conflicted[r.RoomNumber] {
			candidates = append(candidates, r)
		}
	}
	return candidates, nil
}

// ResolveRoomSelection implements the shared auto-select rule of the
// walk-in/check-in/edit flows: keep a still-valid manual selection,
// otherwise fall back to the first candidate, otherwise clear.
func ResolveRoomSelection(current string, candidates []models.Room) string {
	for _, r := range candidates {
		if current != "" && r.RoomNumber == current {
			return current
		}
	}
	if len(candidates) > 0 {
		return candidates[0].RoomNumber
	}
	return ""
}
