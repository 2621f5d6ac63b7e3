package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	mysqlgorm "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"frontdesk-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Room{},
		&models.Booking{},
		&models.Expense{},
		&models.Invoice{},
		&models.HotelSetting{},
		&models.SweepState{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newAvailability(t *testing.T, db *gorm.DB) *AvailabilityService {
	t.Helper()
	return NewAvailabilityService(db, zap.NewNop())
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

func seedRoom(t *testing.T, db *gorm.DB, number, roomType, status string) models.Room {
	t.Helper()
	room := models.Room{RoomNumber: number, Type: roomType, Status: status, IsActive: true}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room %s: %v", number, err)
	}
	return room
}

func seedBooking(t *testing.T, db *gorm.DB, bookingID, roomNumber, status, checkIn, checkOut string) models.Booking {
	t.Helper()
	b := models.Booking{
		BookingID: bookingID,
		UserName:  "Guest " + bookingID,
		Guests:    2,
		CheckIn:   date(t, checkIn),
		CheckOut:  date(t, checkOut),
		RoomType:  models.RoomTypeStandard,
		Status:    status,
	}
	if roomNumber != "" {
		b.RoomNumber = &roomNumber
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking %s: %v", bookingID, err)
	}
	return b
}

func TestCheckDateOverlap(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut string
		want                 bool
	}{
		{"identical ranges", "2024-10-05", "2024-10-07", "2024-10-05", "2024-10-07", true},
		{"partial overlap right", "2024-10-06", "2024-10-08", "2024-10-05", "2024-10-07", true},
		{"partial overlap left", "2024-10-04", "2024-10-06", "2024-10-05", "2024-10-07", true},
		{"a contains b", "2024-10-01", "2024-10-31", "2024-10-05", "2024-10-07", true},
		{"b contains a", "2024-10-05", "2024-10-07", "2024-10-01", "2024-10-31", true},
		{"one night inside", "2024-10-05", "2024-10-06", "2024-10-05", "2024-10-07", true},
		{"touching: a ends where b starts", "2024-10-03", "2024-10-05", "2024-10-05", "2024-10-07", false},
		{"touching: b ends where a starts", "2024-10-07", "2024-10-09", "2024-10-05", "2024-10-07", false},
		{"disjoint before", "2024-10-01", "2024-10-03", "2024-10-05", "2024-10-07", false},
		{"disjoint after", "2024-10-10", "2024-10-12", "2024-10-05", "2024-10-07", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckDateOverlap(date(t, tc.aIn), date(t, tc.aOut), date(t, tc.bIn), date(t, tc.bOut))
			if got != tc.want {
				t.Fatalf("CheckDateOverlap(%s..%s, %s..%s) = %v, want %v",
					tc.aIn, tc.aOut, tc.bIn, tc.bOut, got, tc.want)
			}
		})
	}
}

func TestIsRoomAvailableDateConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newAvailability(t, db)

	seedRoom(t, db, "101", models.RoomTypeStandard, models.RoomStatusAvailable)
	seedBooking(t, db, "BK-EXIST", "101", models.BookingStatusConfirmed, "2024-10-05", "2024-10-07")

	if svc.IsRoomAvailable("101", date(t, "2024-10-06"), date(t, "2024-10-08"), "") {
		t.Fatal("overlapping request must be unavailable")
	}
	if !svc.IsRoomAvailable("101", date(t, "2024-10-07"), date(t, "2024-10-09"), "") {
		t.Fatal("touching boundary (same-day turnover) must be available")
	}
	if !svc.IsRoomAvailable("101", date(t, "2024-10-06"), date(t, "2024-10-08"), "BK-EXIST") {
		t.Fatal("excluding the conflicting booking itself must make the room available")
	}
}

func TestIsRoomAvailableIgnoresInactiveBookings(t *testing.T) {
	db := newTestDB(t)
	svc := newAvailability(t, db)

	seedRoom(t, db, "101", models.RoomTypeStandard, models.RoomStatusAvailable)
	seedBooking(t, db, "BK-CXL", "101", models.BookingStatusCancelled, "2024-10-05", "2024-10-07")
	seedBooking(t, db, "BK-OUT", "101", models.BookingStatusCheckedOut, "2024-10-05", "2024-10-07")

	if !svc.IsRoomAvailable("101", date(t, "2024-10-05"), date(t, "2024-10-07"), "") {
		t.Fatal("cancelled/checked-out bookings must not constrain availability")
	}
}

func TestIsRoomAvailableRoomStatusGuard(t *testing.T) {
	db := newTestDB(t)
	svc := newAvailability(t, db)

	// Room 205 holds a checked-in guest; a request with non-overlapping
	// dates is still rejected because the room is not in available status.
	seedRoom(t, db, "205", models.RoomTypeDeluxe, models.RoomStatusOccupied)
	seedBooking(t, db, "BK0", "205", models.BookingStatusCheckedIn, "2024-10-01", "2024-10-03")

	if svc.IsRoomAvailable("205", date(t, "2024-10-10"), date(t, "2024-10-12"), "") {
		t.Fatal("occupied room must be unavailable regardless of dates")
	}

	seedRoom(t, db, "206", models.RoomTypeDeluxe, models.RoomStatusCleaning)
	if svc.IsRoomAvailable("206", date(t, "2024-10-10"), date(t, "2024-10-12"), "") {
		t.Fatal("room parked in cleaning must be unavailable")
	}
}

func TestIsRoomAvailableMissingInputs(t *testing.T) {
	db := newTestDB(t)
	svc := newAvailability(t, db)
	seedRoom(t, db, "101", models.RoomTypeStandard, models.RoomStatusAvailable)

	if svc.IsRoomAvailable("", date(t, "2024-10-05"), date(t, "2024-10-07"), "") {
		t.Fatal("missing room number must be unavailable")
	}
	if svc.IsRoomAvailable("101", time.Time{}, date(t, "2024-10-07"), "") {
		t.Fatal("missing check-in must be unavailable")
	}
	if svc.IsRoomAvailable("101", date(t, "2024-10-05"), time.Time{}, "") {
		t.Fatal("missing check-out must be unavailable")
	}
	if svc.IsRoomAvailable("999", date(t, "2024-10-05"), date(t, "2024-10-07"), "") {
		t.Fatal("unknown room must be unavailable")
	}
}

func TestIsRoomAvailableFailClosed(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init: %v", err)
	}
	defer sqlDB.Close()

	dialector := mysqlgorm.New(mysqlgorm.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm over sqlmock: %v", err)
	}

	mock.ExpectQuery("SELECT .* FROM `rooms`").
		WillReturnError(errors.New("connection reset"))

	svc := NewAvailabilityService(db, zap.NewNop())
	if svc.IsRoomAvailable("101", time.Now(), time.Now().Add(48*time.Hour), "") {
		t.Fatal("a read failure must yield unavailable, never available")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListCandidateRooms(t *testing.T) {
	db := newTestDB(t)
	svc := newAvailability(t, db)

	seedRoom(t, db, "101", models.RoomTypeStandard, models.RoomStatusAvailable)
	seedRoom(t, db, "102", models.RoomTypeStandard, models.RoomStatusAvailable)
	seedRoom(t, db, "103", models.RoomTypeStandard, models.RoomStatusCleaning)
	seedRoom(t, db, "201", models.RoomTypeDeluxe, models.RoomStatusAvailable)
	seedBooking(t, db, "BK1", "101", models.BookingStatusConfirmed, "2024-10-05", "2024-10-07")

	candidates, err := svc.ListCandidateRooms(models.RoomTypeStandard, date(t, "2024-10-06"), date(t, "2024-10-08"), "")
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	// 101 conflicts on dates, 103 is in cleaning, 201 is the wrong type.
	if len(candidates) != 1 || candidates[0].RoomNumber != "102" {
		t.Fatalf("expected [102], got %+v", candidates)
	}

	candidates, err = svc.ListCandidateRooms(models.RoomTypeStandard, date(t, "2024-10-07"), date(t, "2024-10-09"), "")
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 2 || candidates[0].RoomNumber != "101" || candidates[1].RoomNumber != "102" {
		t.Fatalf("touching boundary must include 101; got %+v", candidates)
	}

	if _, err := svc.ListCandidateRooms(models.RoomTypeStandard, date(t, "2024-10-08"), date(t, "2024-10-08"), ""); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("empty range must be rejected, got %v", err)
	}
}

func TestResolveRoomSelection(t *testing.T) {
	candidates := []models.Room{
		{RoomNumber: "101"},
		{RoomNumber: "102"},
	}

	// A still-valid manual selection survives recomputation of the
	// candidate set, e.g. after editing an unrelated field.
	if got := ResolveRoomSelection("102", candidates); got != "102" {
		t.Fatalf("valid selection must be kept, got %q", got)
	}
	// A selection that dropped out of the candidate set is reassigned to
	// the first candidate.
	if got := ResolveRoomSelection("103", candidates); got != "101" {
		t.Fatalf("invalidated selection must fall back to first candidate, got %q", got)
	}
	if got := ResolveRoomSelection("", candidates); got != "101" {
		t.Fatalf("empty selection must auto-select first candidate, got %q", got)
	}
	if got := ResolveRoomSelection("101", nil); got != "" {
		t.Fatalf("empty candidate set must clear the selection, got %q", got)
	}
}
