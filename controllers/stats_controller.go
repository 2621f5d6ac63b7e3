package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

type StatsController struct {
	StatsSvc *services.StatsService
}

func NewStatsController(svc *services.StatsService) *StatsController {
	return &StatsController{StatsSvc: svc}
}

// GET /api/stats
func (ctrl *StatsController) GetStats(c *gin.Context) {
	snapshot, err := ctrl.StatsSvc.Snapshot()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read stats")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, snapshot)
}
