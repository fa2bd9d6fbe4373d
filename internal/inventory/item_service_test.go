package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockItemStore is a mock implementation of ItemStore
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) GetItems() ([]Item, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockItemStore) GetItem(id int) (*Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockItemStore) PersistItem(req CreateItemRequest) (*Item, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockItemStore) ReceiveStock(itemID int, req ReceiveStockRequest) (*Item, error) {
	args := m.Called(itemID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockItemStore) RemoveItem(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestListItemsClassifiesEachItem(t *testing.T) {
	store := new(MockItemStore)
	store.On("GetItems").Return([]Item{
		{ID: 1, SKU: "FLOUR-01", TotalStockUsage: 5},
		{ID: 2, SKU: "SUGAR-01", TotalStockUsage: 120},
		{ID: 3, SKU: "YEAST-01", TotalStockUsage: 400},
	}, nil)

	service := NewItemService(store, testThresholds)

	items, err := service.ListItems()
	assert.NoError(t, err)
	assert.Equal(t, StatusCritical, items[0].StockStatus)
	assert.Equal(t, StatusGood, items[1].StockStatus)
	assert.Equal(t, StatusOverstock, items[2].StockStatus)
	store.AssertExpectations(t)
}

func TestGetItemAggregatesBranches(t *testing.T) {
	store := new(MockItemStore)
	store.On("GetItem", 7).Return(&Item{
		ID:  7,
		SKU: "FLOUR-01",
		Branches: []BranchStock{
			{BranchID: 1, BranchName: "Centro", Quantity: 20},
			{BranchID: 2, BranchName: "Norte", Quantity: 25},
		},
		TotalStockUsage: 45,
	}, nil)

	service := NewItemService(store, testThresholds)

	item, err := service.GetItem(7)
	assert.NoError(t, err)
	assert.Equal(t, 45.0, item.TotalStockUsage)
	assert.Equal(t, item.TotalStockUsage, TotalUsage(item.Branches))
	assert.Equal(t, StatusLow, item.StockStatus)
}

func TestCreateItemRejectsInvalidConversionFactor(t *testing.T) {
	store := new(MockItemStore)
	service := NewItemService(store, testThresholds)

	_, err := service.CreateItem(CreateItemRequest{
		SKU:              "FLOUR-01",
		Name:             "Harina de trigo",
		BuyingUnit:       "sack",
		UsageUnit:        "gram",
		ConversionFactor: 0,
	})

	assert.ErrorIs(t, err, ErrInvalidConversion)
	store.AssertNotCalled(t, "PersistItem", mock.Anything)
}

func TestReceiveStockValidatesRequest(t *testing.T) {
	store := new(MockItemStore)
	service := NewItemService(store, testThresholds)

	_, err := service.ReceiveStock(1, ReceiveStockRequest{BranchID: 1, BuyingQuantity: 0, PurchasePrice: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = service.ReceiveStock(1, ReceiveStockRequest{BranchID: 1, BuyingQuantity: 2, PurchasePrice: decimal.NewFromInt(-10)})
	assert.ErrorIs(t, err, ErrNegativePrice)

	store.AssertNotCalled(t, "ReceiveStock", mock.Anything, mock.Anything)
}

func TestReceiveStockPropagatesNotFound(t *testing.T) {
	store := new(MockItemStore)
	store.On("ReceiveStock", 99, mock.Anything).Return(nil, ErrItemNotFound)

	service := NewItemService(store, testThresholds)

	_, err := service.ReceiveStock(99, ReceiveStockRequest{BranchID: 1, BuyingQuantity: 2, PurchasePrice: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestReceiveStockClassifiesResult(t *testing.T) {
	store := new(MockItemStore)
	store.On("ReceiveStock", 1, mock.Anything).Return(&Item{
		ID:              1,
		SKU:             "FLOUR-01",
		TotalStockUsage: 250,
		WeightedAvgCost: decimal.NewFromFloat(0.002),
	}, nil)

	service := NewItemService(store, testThresholds)

	item, err := service.ReceiveStock(1, ReceiveStockRequest{BranchID: 1, BuyingQuantity: 5, PurchasePrice: decimal.NewFromInt(100)})
	assert.NoError(t, err)
	assert.Equal(t, StatusOverstock, item.StockStatus)
}

func TestListItemsPropagatesStoreError(t *testing.T) {
	store := new(MockItemStore)
	store.On("GetItems").Return(nil, errors.New("connection refused"))

	service := NewItemService(store, testThresholds)

	_, err := service.ListItems()
	assert.Error(t, err)
}
