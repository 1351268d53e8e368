package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shiftly/internal/database"
	"shiftly/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListRuns returns run history, newest first. Supports rule_id and date
// (YYYY-MM-DD) filters for the admin reporting UI.
func ListRuns(c *gin.Context) {
	db := database.GetDB()
	query := db.Model(&models.RunRecord{}).Order("ran_at DESC").Limit(200)

	if ruleParam := c.Query("rule_id"); ruleParam != "" {
		ruleID, err := strconv.ParseUint(ruleParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule_id"})
			return
		}
		query = query.Where("rule_id = ?", uint(ruleID))
	}

	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
			return
		}
		query = query.Where("target_date = ?", datatypes.Date(parsed))
	}

	var runs []models.RunRecord
	if err := query.Find(&runs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch runs", err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun returns a single run record
func GetRun(c *gin.Context) {
	runID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run id"})
		return
	}

	db := database.GetDB()
	var run models.RunRecord
	if err := db.First(&run, uint(runID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch run", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListDeliveries returns delivery history, newest first. Supports shift_id
// and kind filters.
func ListDeliveries(c *gin.Context) {
	db := database.GetDB()
	query := db.Model(&models.DeliveryRecord{}).Order("sent_at DESC").Limit(500)

	if shiftID := c.Query("shift_id"); shiftID != "" {
		query = query.Where("shift_id = ?", shiftID)
	}
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("reminder_kind = ?", kind)
	}

	var deliveries []models.DeliveryRecord
	if err := query.Find(&deliveries).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch deliveries", err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}
