package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GET /api/admins
func (ctrl *AdminController) GetAdmins(c *gin.Context) {
	var admins []models.Admin
	if err := ctrl.DB.Order("id ASC").Find(&admins).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list admins")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admins)
}

type createAdminPayload struct {
	FullName string `json:"full_name"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// POST /api/admins
func (ctrl *AdminController) CreateAdmin(c *gin.Context) {
	var payload createAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}
	if len(payload.Password) < 8 {
		utils.JSONFieldError(c, http.StatusBadRequest, "password", "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	role := strings.TrimSpace(payload.Role)
	if role == "" {
		role = "receptionist"
	}
	admin := models.Admin{
		FullName: strings.TrimSpace(payload.FullName),
		Username: strings.TrimSpace(payload.Username),
		Password: string(hash),
		Role:     role,
	}
	if err := ctrl.DB.Create(&admin).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			utils.JSONFieldError(c, http.StatusConflict, "username", "username already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create admin")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, admin)
}

// DELETE /api/admins/:id
func (ctrl *AdminController) DeleteAdmin(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid admin id")
		return
	}
	// Keep at least one account able to log in.
	var count int64
	ctrl.DB.Model(&models.Admin{}).Count(&count)
	if count <= 1 {
		utils.JSONError(c, http.StatusConflict, "cannot delete the last admin")
		return
	}
	if err := ctrl.DB.Delete(&models.Admin{}, id).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete admin")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
