package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	tokenrecordRepo "tally/database/repository/tokenrecord"
	"tally/models"
	"tally/schedule"
	"tally/services/token"
	"tally/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenHandler exposes the token record endpoints.
type TokenHandler struct {
	Service token.TokenService
}

// NewTokenHandler constructs a TokenHandler.
func NewTokenHandler(svc token.TokenService) *TokenHandler {
	return &TokenHandler{Service: svc}
}

type submitTokenRequest struct {
	TimeSlotID string              `json:"timeSlotId" binding:"required"`
	Entries    []models.TokenEntry `json:"entries" binding:"required"`
	// Counts is accepted for wire compatibility but always recomputed
	// server-side from the merged entries.
	Counts *models.CountVector `json:"counts,omitempty"`
}

// SubmitTokenDataHandler inserts or merge-updates the record for one slot.
func (h *TokenHandler) SubmitTokenDataHandler(c *gin.Context) {
	logger := getLogger(c)
	userID := c.GetString("userID")

	var req submitTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	slotID, err := schedule.ParseSlotID(req.TimeSlotID)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid time slot identifier", err.Error())
		return
	}

	result, err := h.Service.SubmitTokenData(c.Request.Context(), userID, slotID, req.Entries)
	if err != nil {
		var invalid token.InvalidEntryError
		if errors.As(err, &invalid) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid entry", invalid.Error())
			return
		}
		logger.Error("Failed to submit token data",
			zap.String("userID", userID), zap.String("timeSlotId", req.TimeSlotID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token data"})
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// GetTokenRecordsHandler reconciles the user's grid, then returns a
// filtered, paginated listing.
func (h *TokenHandler) GetTokenRecordsHandler(c *gin.Context) {
	logger := getLogger(c)
	userID := c.GetString("userID")

	q := tokenrecordRepo.ListQuery{
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
		TimeSlot: c.Query("timeSlot"),
	}
	if q.TimeSlot != "" {
		if _, err := schedule.ParseSlotLabel(q.TimeSlot); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid time slot filter", err.Error())
			return
		}
	}
	for _, d := range []string{q.FromDate, q.ToDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(schedule.DateLayout, d); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date filter", err.Error())
			return
		}
	}
	var err error
	if q.Page, err = strconv.Atoi(c.DefaultQuery("page", "1")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid page parameter", err.Error())
		return
	}
	if q.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "50")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid limit parameter", err.Error())
		return
	}

	page, err := h.Service.ListRecords(c.Request.Context(), userID, q)
	if err != nil {
		logger.Error("Failed to list token records", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get token records"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetTokenRecordHandler returns one record by its slot identifier.
func (h *TokenHandler) GetTokenRecordHandler(c *gin.Context) {
	userID := c.GetString("userID")
	timeSlotID := c.Param("timeSlotId")

	record, err := h.Service.GetRecord(c.Request.Context(), userID, timeSlotID)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidSlotLabel) || errors.Is(err, schedule.ErrUnresolvableGrid) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid time slot identifier", err.Error())
			return
		}
		if errors.Is(err, tokenrecordRepo.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		getLogger(c).Error("Failed to fetch token record", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get token record"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteTokenRecordHandler removes one record by its slot identifier.
func (h *TokenHandler) DeleteTokenRecordHandler(c *gin.Context) {
	userID := c.GetString("userID")
	timeSlotID := c.Param("timeSlotId")

	if err := h.Service.DeleteRecord(c.Request.Context(), userID, timeSlotID); err != nil {
		if errors.Is(err, schedule.ErrInvalidSlotLabel) || errors.Is(err, schedule.ErrUnresolvableGrid) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid time slot identifier", err.Error())
			return
		}
		if errors.Is(err, tokenrecordRepo.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		getLogger(c).Error("Failed to delete token record", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete token record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}

// GetCurrentSlotHandler reports the slot the clock is inside right now.
func (h *TokenHandler) GetCurrentSlotHandler(c *gin.Context) {
	now := time.Now()
	idx, ok := schedule.ActiveIndex(now)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	label := schedule.Grid()[idx]
	c.JSON(http.StatusOK, gin.H{
		"active":     true,
		"index":      idx,
		"date":       now.Format(schedule.DateLayout),
		"timeSlot":   label.String(),
		"timeSlotId": schedule.SlotID{Date: now.Format(schedule.DateLayout), Slot: label}.String(),
	})
}

// GetGridHandler returns the canonical daily slot labels.
func (h *TokenHandler) GetGridHandler(c *gin.Context) {
	grid := schedule.Grid()
	labels := make([]string, len(grid))
	for i, l := range grid {
		labels[i] = l.String()
	}
	c.JSON(http.StatusOK, gin.H{"slots": labels})
}
