package handlers

import (
	"net/http"
	"time"

	"shiftly/internal/database"
	"shiftly/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ListShifts returns shifts with their assigned volunteers, optionally
// filtered to a single date (YYYY-MM-DD)
func ListShifts(c *gin.Context) {
	db := database.GetDB()
	query := db.Model(&models.Shift{}).Preload("Volunteer").Order("date, label").Limit(500)

	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
			return
		}
		query = query.Where("date = ?", datatypes.Date(parsed))
	}

	var shifts []models.Shift
	if err := query.Find(&shifts).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch shifts", err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}
