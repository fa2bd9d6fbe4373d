package inventory

import (
	"errors"
	"fmt"

	"panpanocha/internal/repository"
	custom_error "panpanocha/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("inventory item not found")

type ItemRepository struct {
	repository *repository.Repository
}

func NewItemRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

type flatBranchStock struct {
	ItemID     int     `db:"item_id"`
	BranchID   int     `db:"branch_id"`
	BranchName string  `db:"branch_name"`
	Quantity   float64 `db:"quantity"`
}

func (r *ItemRepository) GetItems() ([]Item, error) {
	var items []Item
	query := r.repository.GoquDBWrapper.
		Select("id", "sku", "name", "buying_unit", "usage_unit", "conversion_factor", "last_purchase_price", "weighted_avg_cost").
		From("inventory_items").
		Order(goqu.I("sku").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for inventory items: %w", err)
	}

	if len(items) == 0 {
		return items, nil
	}

	itemIDs := make([]int, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	stocks, err := r.getBranchStocks(itemIDs)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Branches = stocks[items[i].ID]
		if items[i].Branches == nil {
			items[i].Branches = []BranchStock{}
		}
		items[i].TotalStockUsage = TotalUsage(items[i].Branches)
	}

	return items, nil
}

func (r *ItemRepository) GetItem(id int) (*Item, error) {
	var item Item
	query := r.repository.GoquDBWrapper.
		Select("id", "sku", "name", "buying_unit", "usage_unit", "conversion_factor", "last_purchase_price", "weighted_avg_cost").
		From("inventory_items").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}

	stocks, err := r.getBranchStocks([]int{item.ID})
	if err != nil {
		return nil, err
	}
	item.Branches = stocks[item.ID]
	if item.Branches == nil {
		item.Branches = []BranchStock{}
	}
	item.TotalStockUsage = TotalUsage(item.Branches)

	return &item, nil
}

func (r *ItemRepository) getBranchStocks(itemIDs []int) (map[int][]BranchStock, error) {
	var flatStocks []flatBranchStock
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("bs.item_id").As("item_id"),
			goqu.I("bs.branch_id").As("branch_id"),
			goqu.I("b.name").As("branch_name"),
			goqu.I("bs.quantity").As("quantity"),
		).
		From(goqu.T("branch_stocks").As("bs")).
		LeftJoin(
			goqu.T("branches").As("b"),
			goqu.On(goqu.Ex{"b.id": goqu.I("bs.branch_id")}),
		).
		Where(goqu.I("bs.item_id").In(itemIDs))

	if err := query.Executor().ScanStructs(&flatStocks); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for branch stocks: %w", err)
	}

	stocks := make(map[int][]BranchStock)
	for _, flat := range flatStocks {
		stocks[flat.ItemID] = append(stocks[flat.ItemID], BranchStock{
			BranchID:   flat.BranchID,
			BranchName: flat.BranchName,
			Quantity:   flat.Quantity,
		})
	}

	return stocks, nil
}

func (r *ItemRepository) PersistItem(req CreateItemRequest) (*Item, error) {
	item := Item{
		SKU:               req.SKU,
		Name:              req.Name,
		BuyingUnit:        req.BuyingUnit,
		UsageUnit:         req.UsageUnit,
		ConversionFactor:  req.ConversionFactor,
		LastPurchasePrice: decimal.Zero,
		WeightedAvgCost:   decimal.Zero,
		Branches:          []BranchStock{},
	}

	query := r.repository.GoquDBWrapper.Insert("inventory_items").
		Rows(goqu.Record{
			"sku":               req.SKU,
			"name":              req.Name,
			"buying_unit":       req.BuyingUnit,
			"usage_unit":        req.UsageUnit,
			"conversion_factor": req.ConversionFactor,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Duplicate SKU for inventory item", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert inventory item record: %w", err)
	}

	return &item, nil
}

// ReceiveStock applies a purchase receipt transactionally: the branch
// quantity is upserted and the item's weighted-average cost and last
// purchase price are revalued against the pre-receipt on-hand total.
func (r *ItemRepository) ReceiveStock(itemID int, req ReceiveStockRequest) (*Item, error) {
	item, err := r.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	usageQuantity, err := ToUsageUnits(req.BuyingQuantity, item.ConversionFactor)
	if err != nil {
		return nil, err
	}

	unitCost, err := UsageUnitCost(req.PurchasePrice, item.ConversionFactor)
	if err != nil {
		return nil, err
	}

	newWAC := RevalueWeightedAvgCost(item.WeightedAvgCost, item.TotalStockUsage, unitCost, usageQuantity)

	err = repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		upsert := tx.Insert("branch_stocks").
			Rows(goqu.Record{
				"item_id":   itemID,
				"branch_id": req.BranchID,
				"quantity":  usageQuantity,
			}).
			OnConflict(
				goqu.DoUpdate(
					"item_id, branch_id",
					goqu.Record{
						"quantity": goqu.L("branch_stocks.quantity + EXCLUDED.quantity"),
					},
				),
			)

		if _, err := upsert.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to upsert branch stock for branch %d: %w", req.BranchID, err)
		}

		update := tx.Update("inventory_items").
			Set(goqu.Record{
				"last_purchase_price": req.PurchasePrice,
				"weighted_avg_cost":   newWAC,
			}).
			Where(goqu.Ex{"id": itemID})

		if _, err := update.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to revalue inventory item %d: %w", itemID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetItem(itemID)
}

func (r *ItemRepository) RemoveItem(id int) error {
	query := r.repository.GoquDBWrapper.Delete("inventory_items").Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("inventory item", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrItemNotFound
	}

	return nil
}
