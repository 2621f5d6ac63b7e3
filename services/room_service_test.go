package services

import (
	"errors"
	"testing"

	"frontdesk-backend/models"
)

func TestRoomCreateNormalizesAndDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	bookingID := "BK-STALE"
	room, err := svc.Create(models.Room{
		RoomNumber:         " 301 ",
		Type:               "Junior Suite",
		CurrentReservation: &bookingID, // imported data may carry junk
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.RoomNumber != "301" {
		t.Fatalf("room number = %q, want trimmed 301", room.RoomNumber)
	}
	if room.Type != models.RoomTypeSuite {
		t.Fatalf("type = %s, want suite", room.Type)
	}
	if room.Status != models.RoomStatusAvailable || room.CurrentReservation != nil || !room.IsActive {
		t.Fatalf("unexpected defaults: %+v", room)
	}

	if _, err := svc.Create(models.Room{RoomNumber: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank number: got %v, want ErrValidation", err)
	}
	if _, err := svc.Create(models.Room{RoomNumber: "302", Status: "ready"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status: got %v, want ErrValidation", err)
	}
}

func TestRoomManualStatusGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)
	room := seedRoom(t, db, "205", models.RoomTypeDeluxe, models.RoomStatusOccupied)
	held := "BK0"
	db.Model(&room).Update("current_reservation", held)

	free := models.RoomStatusAvailable
	if _, err := svc.Update("205", UpdateRoomInput{Status: &free}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("yanking an occupied room: got %v, want ErrInvalidTransition", err)
	}
	if err := svc.Delete("205"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("deleting an occupied room: got %v, want ErrInvalidTransition", err)
	}

	// Housekeeping edits on a free room are fine.
	seedRoom(t, db, "206", models.RoomTypeDeluxe, models.RoomStatusCleaning)
	updated, err := svc.Update("206", UpdateRoomInput{Status: &free})
	if err != nil {
		t.Fatalf("cleaning -> available: %v", err)
	}
	if updated.Status != models.RoomStatusAvailable {
		t.Fatalf("status = %s, want available", updated.Status)
	}
	if err := svc.Delete("206"); err != nil {
		t.Fatalf("delete free room: %v", err)
	}
	if _, err := svc.GetByNumber("206"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("deleted room still visible: %v", err)
	}
}

func TestRoomGetAllFiltersByNormalizedType(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)
	seedRoom(t, db, "101", models.RoomTypeStandard, models.RoomStatusAvailable)
	seedRoom(t, db, "201", models.RoomTypeDeluxe, models.RoomStatusAvailable)

	rooms, err := svc.GetAll(RoomFilter{Type: "Deluxe King"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomNumber != "201" {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}
