package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity = errors.New("received quantity must be positive")
	ErrNegativePrice   = errors.New("purchase price cannot be negative")
)

// ItemStore is the persistence surface the service needs. Satisfied by
// ItemRepository; mocked in tests.
type ItemStore interface {
	GetItems() ([]Item, error)
	GetItem(id int) (*Item, error)
	PersistItem(req CreateItemRequest) (*Item, error)
	ReceiveStock(itemID int, req ReceiveStockRequest) (*Item, error)
	RemoveItem(id int) error
}

type ItemService struct {
	store      ItemStore
	thresholds Thresholds
}

func NewItemService(store ItemStore, thresholds Thresholds) *ItemService {
	return &ItemService{
		store:      store,
		thresholds: thresholds,
	}
}

func (s *ItemService) ListItems() ([]Item, error) {
	items, err := s.store.GetItems()
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].StockStatus = Classify(items[i].TotalStockUsage, s.thresholds)
	}

	return items, nil
}

func (s *ItemService) GetItem(id int) (*Item, error) {
	item, err := s.store.GetItem(id)
	if err != nil {
		return nil, err
	}

	item.StockStatus = Classify(item.TotalStockUsage, s.thresholds)
	return item, nil
}

func (s *ItemService) CreateItem(req CreateItemRequest) (*Item, error) {
	if !validFactor(req.ConversionFactor) {
		return nil, ErrInvalidConversion
	}

	item, err := s.store.PersistItem(req)
	if err != nil {
		return nil, err
	}

	item.StockStatus = Classify(item.TotalStockUsage, s.thresholds)
	return item, nil
}

func (s *ItemService) ReceiveStock(itemID int, req ReceiveStockRequest) (*Item, error) {
	if req.BuyingQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.PurchasePrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	item, err := s.store.ReceiveStock(itemID, req)
	if err != nil {
		return nil, fmt.Errorf("receive stock for item %d: %w", itemID, err)
	}

	item.StockStatus = Classify(item.TotalStockUsage, s.thresholds)
	return item, nil
}

func (s *ItemService) RemoveItem(id int) error {
	return s.store.RemoveItem(id)
}
