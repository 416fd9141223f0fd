package handlers

import (
	"net/http"
	"time"

	"reminderx/models"
	"reminderx/services/inventory"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	Service *inventory.Service
}

func NewInventoryHandler(svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{Service: svc}
}

type inventoryRequest struct {
	MedicineName   string    `json:"medicine_name" binding:"required"`
	Dosage         int       `json:"dosage" binding:"min=0"`
	ExpirationDate time.Time `json:"expiration_date" binding:"required"`
	Stock          int       `json:"stock" binding:"min=0"`
	Compartment    int       `json:"compartment" binding:"required,min=1"`
}

func (r inventoryRequest) item() models.InventoryItem {
	return models.InventoryItem{
		MedicineName:   r.MedicineName,
		Dosage:         r.Dosage,
		ExpirationDate: r.ExpirationDate,
		Stock:          r.Stock,
		Compartment:    r.Compartment,
	}
}

// CreateInventoryHandler handles POST /api/inventory.
func (h *InventoryHandler) CreateInventoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item := req.item()
	if err := h.Service.Create(c.Request.Context(), userID, &item); err != nil {
		respondError(c, err, "Failed to create inventory item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Inventory item created", "inventory": item})
}

// GetInventoryHandler handles GET /api/inventory.
func (h *InventoryHandler) GetInventoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve inventory")
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	c.JSON(http.StatusOK, gin.H{"inventory": items})
}

// UpdateInventoryHandler handles PATCH /api/inventory/:id.
func (h *InventoryHandler) UpdateInventoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), req.item())
	if err != nil {
		respondError(c, err, "Failed to update inventory item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item updated", "inventory": item})
}

// DeleteInventoryHandler handles DELETE /api/inventory/:id.
func (h *InventoryHandler) DeleteInventoryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete inventory item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}

// CompartmentStockHandler handles POST /api/inventory/esp32/:model/compartment-stock.
// The body lists how many pills the dispenser released per compartment.
func (h *InventoryHandler) CompartmentStockHandler(c *gin.Context) {
	var usage []models.CompartmentUsage
	if err := c.ShouldBindJSON(&usage); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Service.ReportUsage(c.Request.Context(), c.Param("model"), usage); err != nil {
		respondError(c, err, "Failed to update compartment stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}
