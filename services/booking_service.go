package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"
)

// sweepThrottle is the minimum interval between two checkout sweeps; the
// watermark row in sweep_states enforces it across all server instances.
const sweepThrottle = 5 * time.Minute

// BookingService owns the reservation lifecycle: every status change and its
// paired room mutation commit inside a single transaction, and availability
// is re-checked against the transaction snapshot before any room is
// assigned, so a stale pre-check can never turn into a double-booking.
type BookingService struct {
	DB           *gorm.DB
	Availability *AvailabilityService
	Stats        *StatsService
	Log          *zap.Logger

	// Now is swappable for tests.
	Now func() time.Time
}

func NewBookingService(db *gorm.DB, availability *AvailabilityService, stats *StatsService, log *zap.Logger) *BookingService {
	return &BookingService{
		DB:           db,
		Availability: availability,
		Stats:        stats,
		Log:          log,
		Now:          time.Now,
	}
}

// lockForUpdate adds a row lock on dialects that support it. sqlite (tests)
// has no FOR UPDATE syntax; its writes serialize on the database lock.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// parseStayDate accepts "2006-01-02" or RFC3339 and normalizes to midnight UTC.
func parseStayDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDateRange
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidDateRange, value)
		}
	}
	return dateOnly(t), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateBookingInput carries a fully-formed booking request from the desk or
// the online funnel.
type CreateBookingInput struct {
	UserName      string          `json:"userName"`
	UserEmail     string          `json:"userEmail"`
	Guests        int             `json:"guests"`
	CheckIn       string          `json:"checkIn"`
	CheckOut      string          `json:"checkOut"`
	RoomType      string          `json:"roomType"`
	RoomNumber    string          `json:"roomNumber"`
	TotalAmount   float64         `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentInfo   json.RawMessage `json:"paymentInfo"`

	// Walk-ins with a same-day check-in are checked in immediately, which
	// requires the front desk to have verified the guest's ID.
	GuestIDVerified bool `json:"guestIdVerified"`
}

func (in *CreateBookingInput) validate() (checkIn, checkOut time.Time, err error) {
	if strings.TrimSpace(in.UserName) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: userName required", ErrValidation)
	}
	if in.Guests < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: guests must be >= 1", ErrValidation)
	}
	checkIn, err = parseStayDate(in.CheckIn)
	if err != nil {
		return
	}
	checkOut, err = parseStayDate(in.CheckOut)
	if err != nil {
		return
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidDateRange)
	}
	return checkIn, checkOut, nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

// CreateBooking creates a normal (non-walk-in) reservation in confirmed
// status. A room may optionally be pre-assigned; assignment is validated
// inside the transaction but the room is not occupied until check-in.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	checkIn, checkOut, err := in.validate()
	if err != nil {
		return nil, err
	}
	return s.createBooking(in, checkIn, checkOut, false)
}

// CreateWalkIn creates a front-desk walk-in. A room is mandatory. When the
// check-in date is today the booking is checked in immediately and the room
// flips to occupied in the same transaction; a future date yields a
// confirmed booking that holds the room's dates without occupying it.
func (s *BookingService) CreateWalkIn(in CreateBookingInput) (*models.Booking, error) {
	checkIn, checkOut, err := in.validate()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.RoomNumber) == "" {
		return nil, ErrRoomRequired
	}
	today := dateOnly(s.Now())
	if checkIn.Before(today) {
		return nil, fmt.Errorf("%w: checkIn is in the past", ErrInvalidDateRange)
	}
	immediate := checkIn.Equal(today)
	if immediate && !in.GuestIDVerified {
		return nil, ErrGuestIDNotVerified
	}
	return s.createBooking(in, checkIn, checkOut, immediate)
}

func (s *BookingService) createBooking(in CreateBookingInput, checkIn, checkOut time.Time, immediateCheckIn bool) (*models.Booking, error) {
	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusPending
	}
	switch paymentStatus {
	case models.PaymentStatusPaid, models.PaymentStatusPending, models.PaymentStatusRefunded:
	default:
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, paymentStatus)
	}

	booking := models.Booking{
		UserName:      strings.TrimSpace(in.UserName),
		UserEmail:     strings.TrimSpace(in.UserEmail),
		Guests:        in.Guests,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		RoomType:      models.NormalizeRoomType(in.RoomType),
		Status:        models.BookingStatusConfirmed,
		TotalAmount:   in.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: paymentStatus,
	}
	if len(in.PaymentInfo) > 0 {
		booking.PaymentInfo = datatypes.JSON(in.PaymentInfo)
	}

	roomNumber := strings.TrimSpace(in.RoomNumber)
	now := s.Now().UTC()

	// Booking id collisions are possible in principle; retry a few times on
	// the unique index instead of pre-checking.
	const maxAttempts = 5
	var txErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		bookingID, genErr := utils.GenerateBookingID()
		if genErr != nil {
			return nil, fmt.Errorf("failed to generate booking id: %w", genErr)
		}
		booking.ID = 0
		booking.BookingID = bookingID

		txErr = s.DB.Transaction(func(tx *gorm.DB) error {
			if roomNumber != "" {
				var room models.Room
				if err := lockForUpdate(tx).
					Where("room_number = ? AND is_active = ?", roomNumber, true).
					First(&room).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrRoomNotFound
					}
					return err
				}
				ok, err := s.Availability.IsRoomAvailableTx(tx, roomNumber, checkIn, checkOut, "")
				if err != nil {
					return err
				}
				if !ok {
					return ErrRoomUnavailable
				}
				booking.RoomNumber = &room.RoomNumber
			}

			if immediateCheckIn {
				booking.Status = models.BookingStatusCheckedIn
				booking.CheckedInAt = &now
			}

			if err := tx.Create(&booking).Error; err != nil {
				return err
			}

			if immediateCheckIn {
				return occupyRoom(tx, roomNumber, booking.BookingID)
			}
			return nil
		})
		if txErr == nil {
			break
		}
		if isDuplicateKey(txErr) {
			s.Log.Warn("booking id collision, retrying", zap.String("bookingId", bookingID), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, txErr
	}
	if txErr != nil {
		return nil, fmt.Errorf("failed to create booking after retries: %w", txErr)
	}

	s.Stats.BookingCreated(&booking)
	if immediateCheckIn {
		s.Stats.GuestCheckedIn(&booking)
	}
	return &booking, nil
}

// occupyRoom marks a room occupied by the given booking. RowsAffected is
// checked so a vanished room row aborts the surrounding transaction instead
// of leaving a checked-in booking with no occupied room.
func occupyRoom(tx *gorm.DB, roomNumber, bookingID string) error {
	res := tx.Model(&models.Room{}).
		Where("room_number = ?", roomNumber).
		Updates(map[string]interface{}{
			"status":              models.RoomStatusOccupied,
			"current_reservation": bookingID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// releaseRoom returns a room to the pool and clears its back-reference.
func releaseRoom(tx *gorm.DB, roomNumber, toStatus string) error {
	return tx.Model(&models.Room{}).
		Where("room_number = ?", roomNumber).
		Updates(map[string]interface{}{
			"status":              toStatus,
			"current_reservation": nil,
		}).Error
}

// CheckIn transitions a confirmed booking to checked-in. The selected room
// is locked, re-validated for the booking's dates inside the transaction,
// and flipped to occupied; a previously held different room is freed. The
// guest-ID-verified flag is a hard guard, not a UI convention.
func (s *BookingService) CheckIn(bookingID, roomNumber string, guestIDVerified bool) (*models.Booking, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return nil, ErrRoomRequired
	}
	if !guestIDVerified {
		return nil, ErrGuestIDNotVerified
	}

	var booking models.Booking
	now := s.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !models.CanTransition(booking.Status, models.BookingStatusCheckedIn) {
			return ErrInvalidTransition
		}

		var room models.Room
		if err := lockForUpdate(tx).
			Where("room_number = ? AND is_active = ?", roomNumber, true).
			First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		ok, err := s.Availability.IsRoomAvailableTx(tx, roomNumber, booking.CheckIn, booking.CheckOut, booking.BookingID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRoomUnavailable
		}

		previousRoom := ""
		if booking.RoomNumber != nil && *booking.RoomNumber != roomNumber {
			previousRoom = *booking.RoomNumber
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":        models.BookingStatusCheckedIn,
			"room_number":   roomNumber,
			"checked_in_at": now,
		}).Error; err != nil {
			return err
		}
		booking.Status = models.BookingStatusCheckedIn
		booking.RoomNumber = &roomNumber
		booking.CheckedInAt = &now

		if err := occupyRoom(tx, roomNumber, booking.BookingID); err != nil {
			return err
		}
		if previousRoom != "" {
			if err := releaseRoom(tx, previousRoom, models.RoomStatusAvailable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Stats.GuestCheckedIn(&booking)
	return &booking, nil
}

// CheckOut transitions a checked-in booking to checked-out and sends its
// room to cleaning.
func (s *BookingService) CheckOut(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	now := s.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		// Stricter than the transition table: the confirmed → checked-out
		// edge is reserved for the past-checkout sweep.
		if booking.Status != models.BookingStatusCheckedIn {
			return ErrInvalidTransition
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":         models.BookingStatusCheckedOut,
			"checked_out_at": now,
		}).Error; err != nil {
			return err
		}
		booking.Status = models.BookingStatusCheckedOut
		booking.CheckedOutAt = &now

		if booking.RoomNumber != nil {
			if err := releaseRoom(tx, *booking.RoomNumber, models.RoomStatusCleaning); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Stats.GuestCheckedOut(&booking)
	return &booking, nil
}

// Cancel transitions a confirmed booking to cancelled and frees its room, if
// one was held.
func (s *BookingService) Cancel(bookingID string) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingStatusConfirmed ||
			!models.CanTransition(booking.Status, models.BookingStatusCancelled) {
			return ErrInvalidTransition
		}

		if err := tx.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
			return err
		}
		booking.Status = models.BookingStatusCancelled

		if booking.RoomNumber != nil {
			if err := releaseRoom(tx, *booking.RoomNumber, models.RoomStatusAvailable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Stats.BookingCancelled(&booking)
	return &booking, nil
}

// UpdateBookingInput carries an edit. Nil fields keep their current value.
type UpdateBookingInput struct {
	UserName    *string  `json:"userName"`
	UserEmail   *string  `json:"userEmail"`
	Guests      *int     `json:"guests"`
	CheckIn     *string  `json:"checkIn"`
	CheckOut    *string  `json:"checkOut"`
	RoomNumber  *string  `json:"roomNumber"`
	TotalAmount *float64 `json:"totalAmount"`
}

// Update edits an active booking in place, including room reassignment. The
// status never changes here. For a checked-in booking a room change flips
// the new room to occupied and frees the old one atomically.
func (s *BookingService) Update(bookingID string, in UpdateBookingInput) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.IsActive() {
			return ErrInvalidTransition
		}

		checkIn, checkOut := booking.CheckIn, booking.CheckOut
		if in.CheckIn != nil {
			t, err := parseStayDate(*in.CheckIn)
			if err != nil {
				return err
			}
			checkIn = t
		}
		if in.CheckOut != nil {
			t, err := parseStayDate(*in.CheckOut)
			if err != nil {
				return err
			}
			checkOut = t
		}
		if !checkOut.After(checkIn) {
			return fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidDateRange)
		}

		currentRoom := ""
		if booking.RoomNumber != nil {
			currentRoom = *booking.RoomNumber
		}
		targetRoom := currentRoom
		if in.RoomNumber != nil {
			targetRoom = strings.TrimSpace(*in.RoomNumber)
		}
		if booking.Status == models.BookingStatusCheckedIn && targetRoom == "" {
			return ErrRoomRequired
		}

		if targetRoom != "" {
			if targetRoom == currentRoom {
				// The booking keeps its own room: the room status may
				// legitimately be occupied (by this booking), so only the
				// date ranges of other bookings are checked.
				ok, err := s.Availability.noDateConflict(tx, targetRoom, checkIn, checkOut, booking.BookingID)
				if err != nil {
					return err
				}
				if !ok {
					return ErrRoomUnavailable
				}
			} else {
				var room models.Room
				if err := lockForUpdate(tx).
					Where("room_number = ? AND is_active = ?", targetRoom, true).
					First(&room).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrRoomNotFound
					}
					return err
				}
				ok, err := s.Availability.IsRoomAvailableTx(tx, targetRoom, checkIn, checkOut, booking.BookingID)
				if err != nil {
					return err
				}
				if !ok {
					return ErrRoomUnavailable
				}
			}
		}

		updates := map[string]interface{}{
			"check_in":  checkIn,
			"check_out": checkOut,
		}
		if in.UserName != nil && strings.TrimSpace(*in.UserName) != "" {
			updates["user_name"] = strings.TrimSpace(*in.UserName)
		}
		if in.UserEmail != nil {
			updates["user_email"] = strings.TrimSpace(*in.UserEmail)
		}
		if in.Guests != nil {
			if *in.Guests < 1 {
				return fmt.Errorf("%w: guests must be >= 1", ErrValidation)
			}
			updates["guests"] = *in.Guests
		}
		if in.TotalAmount != nil {
			updates["total_amount"] = *in.TotalAmount
		}
		if targetRoom != "" {
			updates["room_number"] = targetRoom
		} else if in.RoomNumber != nil {
			updates["room_number"] = nil
		}

		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return err
		}

		if targetRoom != currentRoom && booking.Status == models.BookingStatusCheckedIn {
			if err := occupyRoom(tx, targetRoom, booking.BookingID); err != nil {
				return err
			}
			if currentRoom != "" {
				if err := releaseRoom(tx, currentRoom, models.RoomStatusAvailable); err != nil {
					return err
				}
			}
		}

		booking.CheckIn = checkIn
		booking.CheckOut = checkOut
		if targetRoom != "" {
			booking.RoomNumber = &targetRoom
		} else {
			booking.RoomNumber = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByBookingID(bookingID)
}

// GetByBookingID fetches one booking by its public id.
func (s *BookingService) GetByBookingID(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// BookingFilter narrows List results.
type BookingFilter struct {
	Status     string
	RoomNumber string
	From       string // check_in >= From
	To         string // check_out <= To
}

func (s *BookingService) List(filter BookingFilter) ([]models.Booking, error) {
	q := s.DB.Model(&models.Booking{}).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RoomNumber != "" {
		q = q.Where("room_number = ?", filter.RoomNumber)
	}
	if filter.From != "" {
		from, err := parseStayDate(filter.From)
		if err != nil {
			return nil, err
		}
		q = q.Where("check_in >= ?", from)
	}
	if filter.To != "" {
		to, err := parseStayDate(filter.To)
		if err != nil {
			return nil, err
		}
		q = q.Where("check_out <= ?", to)
	}

	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// RunSweep advances the shared watermark and, if the throttle window has
// elapsed, force-checks-out every active booking whose checkout date has
// passed. Returns the number of bookings transitioned; (0, nil) when the
// throttle skipped the run.
func (s *BookingService) RunSweep() (int, error) {
	transitioned := 0
	now := s.Now().UTC()
	today := dateOnly(now)
	var departed []models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var state models.SweepState
		if err := lockForUpdate(tx).First(&state).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			state = models.SweepState{LastRunAt: time.Time{}}
			if err := tx.Create(&state).Error; err != nil {
				return err
			}
		}
		if now.Sub(state.LastRunAt) < sweepThrottle {
			return nil
		}
		if err := tx.Model(&state).Update("last_run_at", now).Error; err != nil {
			return err
		}

		var stale []models.Booking
		if err := tx.
			Where("status IN ? AND check_out < ?", models.ActiveBookingStatuses, today).
			Find(&stale).Error; err != nil {
			return err
		}

		for i := range stale {
			b := &stale[i]
			wasCheckedIn := b.Status == models.BookingStatusCheckedIn
			if err := tx.Model(b).Updates(map[string]interface{}{
				"status":         models.BookingStatusCheckedOut,
				"checked_out_at": now,
			}).Error; err != nil {
				return err
			}
			// Only a room this booking actually occupies goes to cleaning;
			// a stale confirmed booking never occupied one.
			if b.RoomNumber != nil {
				if err := tx.Model(&models.Room{}).
					Where("room_number = ? AND current_reservation = ?", *b.RoomNumber, b.BookingID).
					Updates(map[string]interface{}{
						"status":              models.RoomStatusCleaning,
						"current_reservation": nil,
					}).Error; err != nil {
					return err
				}
			}
			if wasCheckedIn {
				departed = append(departed, *b)
			}
			transitioned++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	// Counters only after the batch committed; they are best-effort either way.
	for i := range departed {
		s.Stats.GuestCheckedOut(&departed[i])
	}
	return transitioned, nil
}
