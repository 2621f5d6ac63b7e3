package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

type RoomController struct {
	RoomSvc         *services.RoomService
	AvailabilitySvc *services.AvailabilityService
}

func NewRoomController(rooms *services.RoomService, availability *services.AvailabilityService) *RoomController {
	return &RoomController{RoomSvc: rooms, AvailabilitySvc: availability}
}

// GET /api/rooms?status=&type=
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.GetAll(services.RoomFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/available?type=&checkIn=&checkOut=&exclude=
// The candidate query backing room selection in the walk-in, check-in and
// edit flows.
func (ctrl *RoomController) GetAvailableRooms(c *gin.Context) {
	checkIn, err := time.Parse("2006-01-02", c.Query("checkIn"))
	if err != nil {
		utils.JSONFieldError(c, http.StatusBadRequest, "checkIn", "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("checkOut"))
	if err != nil {
		utils.JSONFieldError(c, http.StatusBadRequest, "checkOut", "checkOut must be YYYY-MM-DD")
		return
	}

	candidates, err := ctrl.AvailabilitySvc.ListCandidateRooms(c.Query("type"), checkIn, checkOut, c.Query("exclude"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"rooms":    candidates,
		"selected": services.ResolveRoomSelection(c.Query("selected"), candidates),
	})
}

// GET /api/rooms/:number
func (ctrl *RoomController) GetRoom(c *gin.Context) {
	room, err := ctrl.RoomSvc.GetByNumber(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	created, err := ctrl.RoomSvc.Create(room)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// PATCH /api/rooms/:number
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	var in services.UpdateRoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	room, err := ctrl.RoomSvc.Update(c.Param("number"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DELETE /api/rooms/:number
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	if err := ctrl.RoomSvc.Delete(c.Param("number")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": c.Param("number")})
}

// GET /api/room-types
func (ctrl *RoomController) GetRoomTypes(c *gin.Context) {
	types, err := ctrl.RoomSvc.RoomTypes()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

// POST /api/room-types
func (ctrl *RoomController) CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	created, err := ctrl.RoomSvc.CreateRoomType(rt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}
