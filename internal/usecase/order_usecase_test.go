package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"emarket/internal/domain/model"
	repo "emarket/internal/repository"
	"emarket/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	statusHistory repo.OrderStatusHistoryRepository
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	inventory     repo.InventoryRepository
	products      repo.ProductRepository
	auditLogs     repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository                    { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository            { return r.orderItems }
func (r *TxReposMock) StatusHistory() repo.OrderStatusHistoryRepository { return r.statusHistory }
func (r *TxReposMock) Carts() repo.CartRepository                      { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository              { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository             { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository                { return r.products }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository              { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) FindByIdempotencyKeyForUpdate(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type StatusHistoryRepoMock struct{ mock.Mock }

func (m *StatusHistoryRepoMock) Create(ctx context.Context, h model.OrderStatusHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *StatusHistoryRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]model.OrderStatusHistory)
	return rows, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	panic("not used in OrderUsecase tests")
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) ListByCartIDOrderedByProduct(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, unitPriceSnapshot decimal.Decimal) error {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	panic("not used in OrderUsecase tests")
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) LockByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in OrderUsecase tests")
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in OrderUsecase tests")
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	panic("not used in OrderUsecase tests")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type orderFixture struct {
	tx        *TxManagerMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	products  *ProductRepoMock
	inventory *InventoryRepoMock
	uc        *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		tx:        new(TxManagerMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		products:  new(ProductRepoMock),
		inventory: new(InventoryRepoMock),
	}
	f.tx.Repos = &TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		carts:      f.carts,
		cartItems:  f.cartItems,
		products:   f.products,
		inventory:  f.inventory,
	}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.uc = usecase.NewOrderUsecase(f.tx, silentLogger())
	return f
}

func validInput(key string) usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		IdempotencyKey:  key,
		CustomerEmail:   "taro@example.com",
		PhoneNumber:     "090-0000-0000",
		DeliveryMethod:  string(model.DeliveryMethodDelivery),
		DeliveryAddress: "Tokyo",
	}
}

// =====================
// PlaceOrder tests
// =====================

func TestOrderUsecase_PlaceOrder_BlankIdempotencyKey(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(TxManagerMock), silentLogger())

	_, created, err := uc.PlaceOrder(context.Background(), 1, validInput("   "))
	assert.False(t, created)
	assertErrContains(t, err, "invalid idempotency_key")
}

func TestOrderUsecase_PlaceOrder_KeyTooLong(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(TxManagerMock), silentLogger())

	_, _, err := uc.PlaceOrder(context.Background(), 1, validInput(strings.Repeat("k", 65)))
	assertErrContains(t, err, "invalid idempotency_key")
}

func TestOrderUsecase_PlaceOrder_InvalidDeliveryMethod(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(TxManagerMock), silentLogger())

	in := validInput("key-1")
	in.DeliveryMethod = "drone"
	_, _, err := uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "invalid delivery_method")
}

func TestOrderUsecase_PlaceOrder_IdempotentHit_ReturnsExistingWithoutCreate(t *testing.T) {
	f := newOrderFixture()

	existing := model.Order{
		ID:         42,
		UserID:     1,
		Status:     model.OrderStatusPending,
		TotalPrice: price("25.00"),
		Currency:   "USD",
	}

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(existing, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).
		Return([]model.OrderItem{{ProductID: 7, ProductName: "coffee", Price: price("25.00"), Quantity: 1}}, nil)

	out, created, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, 1, len(out.Items))

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartIDOrderedByProduct", mock.Anything, int64(5)).
		Return([]model.CartItem{}, nil)

	_, created, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.False(t, created)
	assert.True(t, errors.Is(err, usecase.ErrEmptyCart))
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_NoActiveCart(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{}, repo.ErrNotFound)

	_, _, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.True(t, errors.Is(err, usecase.ErrEmptyCart))
}

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	f := newOrderFixture()

	cartItems := []model.CartItem{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 2},
		{ID: 2, CartID: 5, ProductID: 20, Quantity: 1},
	}
	products := []model.Product{
		{ID: 10, Name: "coffee beans", Price: price("10.00"), Stock: 8},
		{ID: 20, Name: "mug", Price: price("5.00"), Stock: 3},
	}

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartIDOrderedByProduct", mock.Anything, int64(5)).
		Return(cartItems, nil)
	f.products.On("LockByIDs", mock.Anything, []int64{10, 20}).
		Return(products, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(1)).Return(true, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.IdempotencyKey == "key-1" &&
			o.Status == model.OrderStatusPending &&
			o.TotalPrice.Equal(price("25.00")) &&
			o.IsFinalized
	})).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].ProductName == "coffee beans" &&
			items[0].Price.Equal(price("10.00")) &&
			items[1].Quantity == int64(1)
	})).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(5)).Return(nil)

	out, created, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.True(t, out.TotalPrice.Equal(price("25.00")))
	assert.Equal(t, 2, len(out.Items))

	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_OutOfStock_NoOrderCreated(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartIDOrderedByProduct", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, ProductID: 10, Quantity: 5}}, nil)
	f.products.On("LockByIDs", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Name: "coffee beans", Price: price("10.00"), Stock: 2}}, nil)

	_, created, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.False(t, created)
	var oos *usecase.OutOfStockError
	if assert.True(t, errors.As(err, &oos)) {
		assert.Equal(t, int64(10), oos.ProductID)
		assert.Equal(t, int64(5), oos.Requested)
		assert.Equal(t, int64(2), oos.Available)
	}

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_ProductMissing(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartIDOrderedByProduct", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, ProductID: 10, Quantity: 1}}, nil)
	//ロック結果に商品が入っていない（削除済みなど）
	f.products.On("LockByIDs", mock.Anything, []int64{10}).
		Return([]model.Product{}, nil)

	_, _, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	var pm *usecase.ProductMissingError
	if assert.True(t, errors.As(err, &pm)) {
		assert.Equal(t, int64(10), pm.ProductID)
	}
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_CreateRace_ReturnsExisting(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartIDOrderedByProduct", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, ProductID: 10, Quantity: 1}}, nil)
	f.products.On("LockByIDs", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Name: "coffee beans", Price: price("10.00"), Stock: 2}}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(1)).Return(true, nil)

	//unique制約に弾かれた想定
	f.orders.On("Create", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("duplicate key value violates unique constraint"))
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{ID: 77, UserID: 1, Status: model.OrderStatusPending}, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(77)).
		Return([]model.OrderItem{}, nil)

	out, created, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(77), out.ID)
}

func TestOrderUsecase_PlaceOrder_CreateFailed_RefetchMiss_PropagatesError(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIdempotencyKeyForUpdate", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartIDOrderedByProduct", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, ProductID: 10, Quantity: 1}}, nil)
	f.products.On("LockByIDs", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Name: "coffee beans", Price: price("10.00"), Stock: 2}}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(1)).Return(true, nil)

	//unique違反ではないinsert失敗。再検索しても既存は見つからないので元のエラーを返す
	insertErr := errors.New("connection reset by peer")
	f.orders.On("Create", mock.Anything, mock.Anything).
		Return(int64(0), insertErr)
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)

	_, created, err := f.uc.PlaceOrder(context.Background(), 1, validInput("key-1"))

	assert.False(t, created)
	assert.True(t, errors.Is(err, insertErr))
	f.items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// =====================
// ListMyOrders tests
// =====================

func TestOrderUsecase_ListMyOrders_InvalidPage(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(TxManagerMock), silentLogger())

	_, err := uc.ListMyOrders(context.Background(), 1, 0, 20)
	assertErrContains(t, err, "invalid page")
}

func TestOrderUsecase_ListMyOrders_InvalidLimit(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(TxManagerMock), silentLogger())

	_, err := uc.ListMyOrders(context.Background(), 1, 1, 101)
	assertErrContains(t, err, "invalid limit")
}

func TestOrderUsecase_ListMyOrders_PassesPaging(t *testing.T) {
	f := newOrderFixture()

	//page/limitがそのままリポジトリまで届くこと
	f.orders.On("ListByUserID", mock.Anything, int64(1), 3, 10).
		Return([]model.Order{
			{ID: 31, UserID: 1, Status: model.OrderStatusPending},
			{ID: 32, UserID: 1, Status: model.OrderStatusConfirmed},
		}, int64(22), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(31)).Return([]model.OrderItem{}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(32)).Return([]model.OrderItem{}, nil)

	out, err := f.uc.ListMyOrders(context.Background(), 1, 3, 10)

	assert.NoError(t, err)
	assert.Equal(t, 2, len(out))
	assert.Equal(t, int64(31), out[0].ID)
	f.orders.AssertExpectations(t)
}

// =====================
// GetMyOrderDetail tests
// =====================

func TestOrderUsecase_GetMyOrderDetail_OtherUsersOrderIsNotFound(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, UserID: 2, Status: model.OrderStatusPending}, nil)

	_, err := f.uc.GetMyOrderDetail(context.Background(), 1, 9)
	assertErrContains(t, err, "not found")
}

func TestOrderUsecase_GetMyOrderDetail_IncludesHistory(t *testing.T) {
	f := newOrderFixture()
	history := new(StatusHistoryRepoMock)
	f.tx.Repos = &TxReposMock{
		orders:        f.orders,
		orderItems:    f.items,
		statusHistory: history,
	}

	f.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, UserID: 1, Status: model.OrderStatusShipped}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderItem{}, nil)
	history.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderStatusHistory{
			{OrderID: 9, FromStatus: model.OrderStatusConfirmed, ToStatus: model.OrderStatusShipped},
			{OrderID: 9, FromStatus: model.OrderStatusPending, ToStatus: model.OrderStatusConfirmed},
		}, nil)

	out, err := f.uc.GetMyOrderDetail(context.Background(), 1, 9)

	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.History))
	assert.Equal(t, string(model.OrderStatusShipped), out.History[0].ToStatus)
}
