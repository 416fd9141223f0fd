package handlers

import (
	"context"
	"net/http"
	"time"

	"reminderx/models"

	"github.com/gin-gonic/gin"
)

// RecordStore is the dose log persistence.
type RecordStore interface {
	Create(ctx context.Context, record models.DoseRecord) (string, error)
	ListByUser(ctx context.Context, userID string) ([]models.DoseRecord, error)
}

type RecordsHandler struct {
	Records RecordStore
}

func NewRecordsHandler(records RecordStore) *RecordsHandler {
	return &RecordsHandler{Records: records}
}

type recordRequest struct {
	MedicineName string    `json:"medicineName" binding:"required"`
	Dosage       int       `json:"dosage" binding:"min=0"`
	Compartment  int       `json:"compartment" binding:"min=0"`
	Time         time.Time `json:"time"`
	Status       string    `json:"status" binding:"required,oneof=taken skipped"`
}

// RegisterRecordHandler handles POST /api/notification/register.
func (h *RecordsHandler) RegisterRecordHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Time.IsZero() {
		req.Time = time.Now()
	}

	rec := models.DoseRecord{
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		Compartment:  req.Compartment,
		Time:         req.Time,
		Status:       req.Status,
		UserID:       userID,
	}
	id, err := h.Records.Create(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err, "Failed to record dose")
		return
	}
	rec.ID = id
	c.JSON(http.StatusCreated, gin.H{"notification": rec})
}

// ListRecordsHandler handles GET /api/notification.
func (h *RecordsHandler) ListRecordsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	records, err := h.Records.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve dose records")
		return
	}
	if records == nil {
		records = []models.DoseRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": records})
}
