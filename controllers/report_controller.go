package controllers

import (
	"errors"
	"net/http"

	"github.com/aadykin95/telegram-food-bot-render/models"
	"github.com/aadykin95/telegram-food-bot-render/services"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Svc *services.ReportService
}

func NewReportController(svc *services.ReportService) *ReportController {
	return &ReportController{Svc: svc}
}

// GetReport returns the same report the bot renders, as JSON.
// GET /api/reports/:userID?period=today|week|month
func (h *ReportController) GetReport(c *gin.Context) {
	period := c.DefaultQuery("period", string(models.PeriodToday))

	rep, err := h.Svc.Build(c.Request.Context(), c.Param("userID"), period)
	if errors.Is(err, services.ErrMissingPeriod) || errors.Is(err, services.ErrUnknownPeriod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "periods": models.Periods})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}
