package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"shiftly/internal/database"
	"shiftly/internal/models"
	"shiftly/internal/services"
	"shiftly/internal/store"
	"shiftly/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListRules returns all reminder rules
func ListRules(c *gin.Context) {
	db := database.GetDB()

	var rules []models.ReminderRule
	if err := db.Order("id").Find(&rules).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch rules", err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// CreateRule handles the creation of a new reminder rule
func CreateRule(c *gin.Context) {
	var request models.CreateRuleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		log.Printf("Error: Invalid input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	if _, err := time.Parse("15:04", request.TimeOfDay); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time_of_day must be in HH:mm format"})
		return
	}

	enabled := true
	if request.Enabled != nil {
		enabled = *request.Enabled
	}

	rule := models.ReminderRule{
		DayGroup:         request.DayGroup,
		ReminderKind:     request.ReminderKind,
		TimeOfDay:        request.TimeOfDay,
		DaysBeforeTarget: *request.DaysBeforeTarget,
		Enabled:          enabled,
		MessageTemplate:  request.MessageTemplate,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	db := database.GetDB()
	if err := db.Create(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "A rule for this day group and reminder kind already exists"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create rule", err)
		return
	}

	log.Printf("Rule %d created by %s", rule.ID, utils.GetRealClientIP(c))
	c.JSON(http.StatusCreated, rule)
}

// UpdateRule edits the schedule and template of an existing rule
func UpdateRule(c *gin.Context) {
	ruleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule id"})
		return
	}

	var request models.UpdateRuleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	if _, err := time.Parse("15:04", request.TimeOfDay); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time_of_day must be in HH:mm format"})
		return
	}

	db := database.GetDB()
	var rule models.ReminderRule
	if err := db.First(&rule, uint(ruleID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch rule", err)
		return
	}

	rule.TimeOfDay = request.TimeOfDay
	rule.DaysBeforeTarget = *request.DaysBeforeTarget
	rule.MessageTemplate = request.MessageTemplate
	rule.UpdatedAt = time.Now()

	if err := db.Save(&rule).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update rule", err)
		return
	}

	log.Printf("Rule %d updated by %s", rule.ID, utils.GetRealClientIP(c))
	c.JSON(http.StatusOK, rule)
}

// SetRuleEnabled toggles a rule on or off
func SetRuleEnabled(c *gin.Context) {
	ruleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule id"})
		return
	}

	var request struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must contain an enabled flag"})
		return
	}

	db := database.GetDB()
	result := db.Model(&models.ReminderRule{}).
		Where("id = ?", uint(ruleID)).
		Updates(map[string]interface{}{"enabled": *request.Enabled, "updated_at": time.Now()})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update rule", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	log.Printf("Rule %d enabled=%v by %s", ruleID, *request.Enabled, utils.GetRealClientIP(c))
	c.JSON(http.StatusOK, gin.H{"id": ruleID, "enabled": *request.Enabled})
}

// TriggerDispatch returns a handler that runs a rule immediately for a given
// target date. It goes through the same pipeline and run ledger as the
// scheduled path, so re-triggering an already-dispatched date reports
// already_ran instead of sending twice.
func TriggerDispatch(dispatcher *services.Dispatcher, ledger *store.RunLedger, location *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		ruleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule id"})
			return
		}

		db := database.GetDB()
		var rule models.ReminderRule
		if err := db.First(&rule, uint(ruleID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
				return
			}
			handleError(c, http.StatusInternalServerError, "Failed to fetch rule", err)
			return
		}

		targetDate := services.TargetDate(time.Now(), rule.DaysBeforeTarget, location)
		if dateParam := c.Query("date"); dateParam != "" {
			parsed, err := time.ParseInLocation("2006-01-02", dateParam, location)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
				return
			}
			targetDate = parsed
		}

		exists, err := ledger.Exists(c.Request.Context(), rule.ID, targetDate, rule.ReminderKind)
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to check run ledger", err)
			return
		}
		if exists {
			c.JSON(http.StatusOK, gin.H{"status": "already_ran", "target_date": targetDate.Format("2006-01-02")})
			return
		}

		if err := dispatcher.Dispatch(c.Request.Context(), rule, targetDate); err != nil {
			handleError(c, http.StatusInternalServerError, "Dispatch failed", err)
			return
		}

		log.Printf("Rule %d dispatched manually for %s by %s",
			rule.ID, targetDate.Format("2006-01-02"), utils.GetRealClientIP(c))
		c.JSON(http.StatusOK, gin.H{"status": "dispatched", "target_date": targetDate.Format("2006-01-02")})
	}
}
