package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atompoint/internal/models"
)

type ProductRepositoryMock struct {
	mock.Mock
}

func (m *ProductRepositoryMock) ListProducts(ctx context.Context, onlyAvailable bool) ([]*models.Product, error) {
	args := m.Called(ctx, onlyAvailable)
	products, _ := args.Get(0).([]*models.Product)
	return products, args.Error(1)
}

func (m *ProductRepositoryMock) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *ProductRepositoryMock) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	args := m.Called(ctx, product)
	created, _ := args.Get(0).(*models.Product)
	return created, args.Error(1)
}

func (m *ProductRepositoryMock) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	args := m.Called(ctx, product)
	updated, _ := args.Get(0).(*models.Product)
	return updated, args.Error(1)
}

func (m *ProductRepositoryMock) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_List_WithoutCache(t *testing.T) {
	repo := new(ProductRepositoryMock)
	service := New(newNoopLogger(), repo, nil)

	repo.On("ListProducts", mock.Anything, true).Return([]*models.Product{
		{ID: 1, Operator: "MPT", Category: "Points", Name: "1000 Points", Available: true},
		{ID: 2, Operator: "MPT", Category: "Data", Name: "1GB", Available: true},
		{ID: 3, Operator: "ATOM", Category: "Points", Name: "2000 Points", Available: true},
	}, nil).Once()

	grouped, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["MPT"], 2)
	assert.Len(t, grouped["MPT"]["Points"], 1)
	assert.Len(t, grouped["ATOM"]["Points"], 1)

	repo.AssertExpectations(t)
}

func TestService_List_CacheMissPopulatesCache(t *testing.T) {
	repo := new(ProductRepositoryMock)
	cache := new(CacheMock)
	service := New(newNoopLogger(), repo, cache)

	cache.On("Get", catalogCacheKey, mock.Anything).Return(false, nil).Once()
	repo.On("ListProducts", mock.Anything, true).Return([]*models.Product{
		{ID: 1, Operator: "MPT", Category: "Points", Name: "1000 Points", Available: true},
	}, nil).Once()
	cache.On("Set", catalogCacheKey, mock.Anything, catalogCacheTTL).Return(nil).Once()

	_, err := service.List(context.Background())
	require.NoError(t, err)

	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestService_List_CacheHitSkipsRepo(t *testing.T) {
	repo := new(ProductRepositoryMock)
	cache := new(CacheMock)
	service := New(newNoopLogger(), repo, cache)

	cache.On("Get", catalogCacheKey, mock.Anything).Return(true, nil).Once()

	_, err := service.List(context.Background())
	require.NoError(t, err)

	repo.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
}

func TestService_Create_InvalidatesCache(t *testing.T) {
	repo := new(ProductRepositoryMock)
	cache := new(CacheMock)
	service := New(newNoopLogger(), repo, cache)

	product := &models.Product{Operator: "MPT", Category: "Points", Name: "500 Points", PriceCr: 60}
	repo.On("CreateProduct", mock.Anything, product).
		Return(&models.Product{ID: 10}, nil).Once()
	cache.On("Invalidate", catalogCacheKey).Return(nil).Once()

	created, err := service.Create(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	cache.AssertExpectations(t)
}

func TestService_Delete_InvalidatesCache(t *testing.T) {
	repo := new(ProductRepositoryMock)
	cache := new(CacheMock)
	service := New(newNoopLogger(), repo, cache)

	repo.On("DeleteProduct", mock.Anything, int64(10)).Return(nil).Once()
	cache.On("Invalidate", catalogCacheKey).Return(nil).Once()

	err := service.Delete(context.Background(), 10)
	require.NoError(t, err)

	cache.AssertExpectations(t)
}
