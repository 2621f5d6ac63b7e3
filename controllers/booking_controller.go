package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

type BookingController struct {
	BookingSvc *services.BookingService
	Log        *zap.Logger
}

func NewBookingController(svc *services.BookingService, log *zap.Logger) *BookingController {
	return &BookingController{BookingSvc: svc, Log: log}
}

// GET /api/bookings?status=&room=&from=&to=
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	filter := services.BookingFilter{
		Status:     c.Query("status"),
		RoomNumber: c.Query("room"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
	list, err := ctrl.BookingSvc.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/bookings/:id
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	booking, err := ctrl.BookingSvc.GetByBookingID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	booking, err := ctrl.BookingSvc.CreateBooking(in)
	if err != nil {
		ctrl.Log.Warn("create booking failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// POST /api/bookings/walk-in
func (ctrl *BookingController) CreateWalkIn(c *gin.Context) {
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	booking, err := ctrl.BookingSvc.CreateWalkIn(in)
	if err != nil {
		ctrl.Log.Warn("walk-in failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

type checkInPayload struct {
	RoomNumber      string `json:"roomNumber" binding:"required"`
	GuestIDVerified bool   `json:"guestIdVerified"`
}

// POST /api/bookings/:id/checkin
func (ctrl *BookingController) CheckIn(c *gin.Context) {
	var payload checkInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: roomNumber required")
		return
	}
	booking, err := ctrl.BookingSvc.CheckIn(c.Param("id"), payload.RoomNumber, payload.GuestIDVerified)
	if err != nil {
		ctrl.Log.Warn("check-in failed", zap.String("bookingId", c.Param("id")), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/checkout
func (ctrl *BookingController) CheckOut(c *gin.Context) {
	booking, err := ctrl.BookingSvc.CheckOut(c.Param("id"))
	if err != nil {
		ctrl.Log.Warn("check-out failed", zap.String("bookingId", c.Param("id")), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings/:id/cancel
func (ctrl *BookingController) Cancel(c *gin.Context) {
	booking, err := ctrl.BookingSvc.Cancel(c.Param("id"))
	if err != nil {
		ctrl.Log.Warn("cancel failed", zap.String("bookingId", c.Param("id")), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PUT /api/bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	var in services.UpdateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	booking, err := ctrl.BookingSvc.Update(c.Param("id"), in)
	if err != nil {
		ctrl.Log.Warn("update booking failed", zap.String("bookingId", c.Param("id")), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
