package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"panpanocha/internal/repository"
	"panpanocha/pkg/auditlog"
	custom_error "panpanocha/pkg/errors"
	"panpanocha/pkg/security"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	service  *ItemService
	auditLog auditlog.Logger
}

func NewItemHandler(r *repository.Repository, thresholds Thresholds, a auditlog.Logger) *ItemHandler {
	itemRepo := NewItemRepository(r)
	service := NewItemService(itemRepo, thresholds)

	return &ItemHandler{
		service:  service,
		auditLog: a,
	}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/inventory/items")
	{
		items.GET("", security.Authorize("user"), h.GetItems)
		items.GET("/:id", security.Authorize("user"), h.GetItem)
		items.POST("", security.Authorize("admin"), h.CreateItem)
		items.POST("/:id/receipts", security.Authorize("manager"), h.ReceiveStock)
		items.DELETE("/:id", security.Authorize("admin"), h.RemoveItem)
	}
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	items, err := h.service.ListItems()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list inventory items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.service.GetItem(itemID)
	if errors.Is(err, ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get inventory item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.service.CreateItem(req)
	if errors.Is(err, ErrInvalidConversion) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid conversion factor"})
		return
	}
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert item, SKU not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create inventory item"})
		return
	}

	go h.auditLog.Log(
		"create",
		map[string]interface{}{
			"sku":               item.SKU,
			"buying_unit":       item.BuyingUnit,
			"usage_unit":        item.UsageUnit,
			"conversion_factor": item.ConversionFactor,
			"msg":               "Register inventory item",
		},
		item,
	)

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) ReceiveStock(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.service.ReceiveStock(itemID, req)
	switch {
	case errors.Is(err, ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrNegativePrice), errors.Is(err, ErrInvalidConversion):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid receipt", "details": err.Error()})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not receive stock", "details": err.Error()})
		return
	}

	go h.auditLog.Log(
		"receive",
		map[string]interface{}{
			"branch_id":         req.BranchID,
			"buying_quantity":   req.BuyingQuantity,
			"purchase_price":    req.PurchasePrice,
			"weighted_avg_cost": item.WeightedAvgCost,
			"msg":               "Receive stock into branch",
		},
		item,
	)

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	err = h.service.RemoveItem(itemID)
	if errors.Is(err, ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete item", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
