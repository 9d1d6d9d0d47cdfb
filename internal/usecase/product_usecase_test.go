package usecase_test

import (
	"context"
	"testing"

	"emarket/internal/domain/model"
	repo "emarket/internal/repository"
	"emarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type StubInventoryRepo struct{ mock.Mock }

func (m *StubInventoryRepo) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *StubInventoryRepo) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *StubInventoryRepo) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	panic("not used in ProductUsecase tests")
}

func (m *StubInventoryRepo) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type productFixture struct {
	products  *StubProductRepo
	inventory *StubInventoryRepo
	audit     *AuditRepoMock
	uc        *usecase.ProductUsecase
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:  new(StubProductRepo),
		inventory: new(StubInventoryRepo),
		audit:     new(AuditRepoMock),
	}
	f.uc = usecase.NewProductUsecase(f.products, f.inventory, f.audit)
	return f
}

// =====================
// ListPublicProducts tests
// =====================

func TestProductUsecase_List_InvalidPriceRange(t *testing.T) {
	f := newProductFixture()

	minP := price("100.00")
	maxP := price("10.00")

	_, err := f.uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page:     1,
		Limit:    20,
		MinPrice: &minP,
		MaxPrice: &maxP,
	})
	assertErrContains(t, err, "min_price must be <= max_price")
}

func TestProductUsecase_List_NegativeMinPrice(t *testing.T) {
	f := newProductFixture()

	minP := price("-1.00")

	_, err := f.uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page:     1,
		Limit:    20,
		MinPrice: &minP,
	})
	assertErrContains(t, err, "min_price must be >= 0")
}

func TestProductUsecase_List_InvalidSort(t *testing.T) {
	f := newProductFixture()

	_, err := f.uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Sort:  "rating",
	})
	assertErrContains(t, err, "invalid sort")
}

func TestProductUsecase_List_Success(t *testing.T) {
	f := newProductFixture()

	f.products.On("ListPublic", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.Page == 1 && q.Limit == 20 && q.Q == "coffee"
	})).Return([]model.Product{{ID: 10, Name: "coffee beans"}}, int64(1), nil)

	out, err := f.uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Q:     " coffee ",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, 1, len(out.Items))
}

// =====================
// GetProductDetail tests
// =====================

func TestProductUsecase_Detail_InactiveIsNotFound(t *testing.T) {
	f := newProductFixture()

	f.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, IsActive: false}, nil)

	_, err := f.uc.GetProductDetail(context.Background(), 10)
	assertErrContains(t, err, "not found")
}

// =====================
// Admin tests
// =====================

func TestProductUsecase_AdminCreate_NegativePrice(t *testing.T) {
	f := newProductFixture()

	_, err := f.uc.AdminCreateProduct(context.Background(), 1, usecase.AdminCreateProductInput{
		Name:  "coffee beans",
		Price: price("-10.00"),
		Stock: 1,
	})
	assertErrContains(t, err, "price must be >= 0")
}

func TestProductUsecase_AdminUpdateInventory_WritesAdjustmentAndAudit(t *testing.T) {
	f := newProductFixture()

	f.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Name: "coffee beans", Stock: 5, IsActive: true}, nil)
	f.inventory.On("SetStock", mock.Anything, int64(10), int64(12)).Return(nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ProductID == 10 && a.AdminUserID == 8 && a.Delta == 7 && a.Reason == "restock"
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 8 &&
			l.Action == model.AuditActionUpdateStock &&
			l.ResourceID == 10
	})).Return(nil)

	err := f.uc.AdminUpdateInventory(context.Background(), 8, 10, 12, "restock")

	assert.NoError(t, err)
	f.inventory.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestProductUsecase_AdminUpdateInventory_ReasonRequired(t *testing.T) {
	f := newProductFixture()

	err := f.uc.AdminUpdateInventory(context.Background(), 8, 10, 12, "   ")
	assertErrContains(t, err, "reason required")
	f.inventory.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}
