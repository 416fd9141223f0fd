package handlers

import (
	"net/http"

	"reminderx/models"
	"reminderx/services/contact"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	Service *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{Service: svc}
}

type contactRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// CreateContactHandler handles POST /api/contact.
func (h *ContactHandler) CreateContactHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ct := &models.Contact{Name: req.Name, PhoneNumber: req.PhoneNumber}
	if err := h.Service.Create(c.Request.Context(), userID, ct); err != nil {
		respondError(c, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Contact created", "contact": ct})
}

// GetContactsHandler handles GET /api/contact.
func (h *ContactHandler) GetContactsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	contacts, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve contacts")
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// UpdateContactHandler handles PATCH /api/contact/:id.
func (h *ContactHandler) UpdateContactHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ct := &models.Contact{Name: req.Name, PhoneNumber: req.PhoneNumber}
	if err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), ct); err != nil {
		respondError(c, err, "Failed to update contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact updated", "contact": ct})
}

// DeleteContactHandler handles DELETE /api/contact/:id.
func (h *ContactHandler) DeleteContactHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
