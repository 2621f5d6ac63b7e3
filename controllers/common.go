package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

// respondServiceError maps service-layer sentinel errors to HTTP status
// codes. Anything unmatched is a 500; the raw error text stays server-side.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrExpenseNotFound),
		errors.Is(err, services.ErrInvoiceNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONFieldError(c, http.StatusConflict, "roomNumber", "room is not available for the selected dates")

	case errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "operation not allowed in the current status")

	case errors.Is(err, services.ErrGuestIDNotVerified):
		utils.JSONFieldError(c, http.StatusBadRequest, "guestIdVerified", "guest ID must be verified before check-in")

	case errors.Is(err, services.ErrRoomRequired):
		utils.JSONFieldError(c, http.StatusBadRequest, "roomNumber", "a room must be selected")

	case errors.Is(err, services.ErrRejectReasonEmpty):
		utils.JSONFieldError(c, http.StatusBadRequest, "reason", "a rejection reason is required")

	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, err.Error())

	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}
