package inventory

import (
	"github.com/shopspring/decimal"

	"panpanocha/pkg/models"
)

// Item is a stock-keeping unit aggregated across branches. Quantities are
// expressed in the usage unit (e.g. gram); purchasing happens in the buying
// unit (e.g. sack) and is converted through ConversionFactor.
type Item struct {
	ID                int             `json:"id" db:"id"`
	SKU               string          `json:"sku" db:"sku"`
	Name              string          `json:"name" db:"name"`
	BuyingUnit        string          `json:"buying_unit" db:"buying_unit"`
	UsageUnit         string          `json:"usage_unit" db:"usage_unit"`
	ConversionFactor  float64         `json:"conversion_factor" db:"conversion_factor"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price" db:"last_purchase_price"`
	WeightedAvgCost   decimal.Decimal `json:"weighted_avg_cost" db:"weighted_avg_cost"`
	TotalStockUsage   float64         `json:"total_stock_usage" db:"-"`
	StockStatus       StockStatus     `json:"stock_status" db:"-"`
	Branches          []BranchStock   `json:"branches" db:"-"`
}

// BranchStock is one branch's share of an item's stock, in usage units.
// Each branch appears at most once per item.
type BranchStock struct {
	BranchID   int     `json:"branch_id" db:"branch_id"`
	BranchName string  `json:"branch_name" db:"branch_name"`
	Quantity   float64 `json:"quantity" db:"quantity"`
}

// TotalUsage sums the branch quantities. Item.TotalStockUsage must always
// equal this sum.
func TotalUsage(branches []BranchStock) float64 {
	var total float64
	for _, branch := range branches {
		total += branch.Quantity
	}
	return total
}

type CreateItemRequest struct {
	SKU              string  `json:"sku" binding:"required"`
	Name             string  `json:"name" binding:"required"`
	BuyingUnit       string  `json:"buying_unit" binding:"required"`
	UsageUnit        string  `json:"usage_unit" binding:"required"`
	ConversionFactor float64 `json:"conversion_factor" binding:"required"`
}

// ReceiveStockRequest records a purchase receipt: quantity in buying units
// at a buying-unit price, delivered to one branch.
type ReceiveStockRequest struct {
	BranchID       int             `json:"branch_id" binding:"required"`
	BuyingQuantity float64         `json:"buying_quantity" binding:"required"`
	PurchasePrice  decimal.Decimal `json:"purchase_price" binding:"required"`
}

func (i *Item) CreateLogView() models.AuditLog {
	return models.AuditLog{
		ResourceID:   i.SKU,
		ResourceType: "inventory_item",
	}
}
