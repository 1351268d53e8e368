package handlers

import (
	"log"
	"net/http"
	"time"

	"shiftly/internal/database"
	"shiftly/internal/models"
	"shiftly/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListVolunteers returns the volunteer roster, optionally filtered by a
// case-insensitive name search
func ListVolunteers(c *gin.Context) {
	db := database.GetDB()
	query := db.Model(&models.Volunteer{}).Order("display_name").Limit(200)

	if term := c.Query("q"); term != "" {
		pattern := "%" + term + "%"
		query = query.Where(
			"display_name ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var volunteers []models.Volunteer
	if err := query.Find(&volunteers).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch volunteers", err)
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

// SetVolunteerOptIn toggles whether a volunteer receives reminders
func SetVolunteerOptIn(c *gin.Context) {
	volunteerID := c.Param("id")

	var request struct {
		OptIn *bool `json:"opt_in" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must contain an opt_in flag"})
		return
	}

	db := database.GetDB()
	result := db.Model(&models.Volunteer{}).
		Where("id = ?", volunteerID).
		Updates(map[string]interface{}{"opt_in": *request.OptIn, "updated_at": time.Now()})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update volunteer", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Volunteer not found"})
		return
	}

	log.Printf("Volunteer %s opt_in=%v by %s", volunteerID, *request.OptIn, utils.GetRealClientIP(c))
	c.JSON(http.StatusOK, gin.H{"id": volunteerID, "opt_in": *request.OptIn})
}
