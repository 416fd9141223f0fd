package handlers

import (
	"net/http"
	"time"

	"reminderx/models"
	"reminderx/services/reminder"
	"reminderx/services/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReminderHandler struct {
	Service *reminder.Service
}

func NewReminderHandler(svc *reminder.Service) *ReminderHandler {
	return &ReminderHandler{Service: svc}
}

type createReminderRequest struct {
	MedicineName string          `json:"medicineName" binding:"required"`
	Frequency    string          `json:"frequency"`
	SpecificDays []string        `json:"specificDays"`
	Dosage       []models.Dosage `json:"dosage" binding:"required,min=1"`
	Times        []string        `json:"times"`
	Compartment  int             `json:"compartment" binding:"required,min=1"`
}

// CreateReminderHandler handles POST /api/reminder/createreminder.
func (h *ReminderHandler) CreateReminderHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r := &models.Reminder{
		MedicineName: req.MedicineName,
		Frequency:    req.Frequency,
		SpecificDays: req.SpecificDays,
		Dosage:       req.Dosage,
		Times:        req.Times,
		Compartment:  req.Compartment,
	}
	if err := h.Service.Create(c.Request.Context(), userID, r); err != nil {
		respondError(c, err, "Failed to create reminder")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Reminder created successfully", "reminder": r})
}

// GetRemindersHandler handles GET /api/reminder.
func (h *ReminderHandler) GetRemindersHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reminders, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve reminders")
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	c.JSON(http.StatusOK, gin.H{"reminder": reminders})
}

type updateHistoryRequest struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Status    string    `json:"status" binding:"required,oneof=taken skipped"`
	ForTime   string    `json:"forTime"`
}

// UpdateHistoryHandler handles PATCH /api/reminder/:id. This is how the app
// confirms a dose; it stops any pending retries for the occurrence.
func (h *ReminderHandler) UpdateHistoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req updateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	conf, err := h.Service.UpdateHistory(c.Request.Context(), userID, c.Param("id"), req.Timestamp, req.Status, req.ForTime)
	if err != nil {
		respondError(c, err, "Updating reminder history failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder history updated", "entry": conf.Entry})
}

// GetHistoryHandler handles GET /api/reminder/:id/history?date=YYYY-MM-DD (default today).
func (h *ReminderHandler) GetHistoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date := c.DefaultQuery("date", time.Now().Format(schedule.DateLayout))

	entries, err := h.Service.History(c.Request.Context(), userID, c.Param("id"), date)
	if err != nil {
		respondError(c, err, "Failed to retrieve reminder history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "history": entries})
}

// DeleteReminderHandler handles DELETE /api/reminder/:id.
func (h *ReminderHandler) DeleteReminderHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Deleting reminder failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}

// DeviceRemindersHandler handles GET /api/reminder/esp32/:model.
func (h *ReminderHandler) DeviceRemindersHandler(c *gin.Context) {
	reminders, err := h.Service.ForDevice(c.Request.Context(), c.Param("model"))
	if err != nil {
		respondError(c, err, "Failed to retrieve reminders for device")
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	c.JSON(http.StatusOK, reminders)
}

type deviceStatusRequest struct {
	ReminderID string `json:"reminderId" binding:"required"`
	Status     string `json:"status" binding:"required,oneof=taken skipped"`
}

// DeviceStatusHandler handles POST /api/reminder/esp32/status.
func (h *ReminderHandler) DeviceStatusHandler(c *gin.Context) {
	var req deviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	conf, err := h.Service.ConfirmFromDevice(c.Request.Context(), req.ReminderID, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update status")
		return
	}
	getLogger(c).Info("dispenser reported dose",
		zap.String("reminderId", req.ReminderID),
		zap.String("slot", conf.Occurrence.Key),
		zap.String("status", req.Status))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Reminder status updated to '" + req.Status + "' for " + conf.Occurrence.Key,
	})
}
