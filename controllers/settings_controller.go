package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// GET /api/settings/hotel
func (ctrl *SettingsController) GetHotelSettings(c *gin.Context) {
	var setting models.HotelSetting
	if err := ctrl.DB.First(&setting).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "hotel settings not configured")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

// PUT /api/settings/hotel
func (ctrl *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload models.HotelSetting
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	var setting models.HotelSetting
	if err := ctrl.DB.First(&setting).Error; err != nil {
		setting = models.HotelSetting{}
	}
	setting.Name = payload.Name
	setting.Address = payload.Address
	setting.Phone = payload.Phone
	setting.Email = payload.Email
	setting.Website = payload.Website

	if err := ctrl.DB.Save(&setting).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save settings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}
