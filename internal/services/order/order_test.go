package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

type OrderRepositoryMock struct {
	mock.Mock
}

func (m *OrderRepositoryMock) InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)
	created, _ := args.Get(0).(*models.Order)
	return created, args.Error(1)
}

func (m *OrderRepositoryMock) PurchaseProduct(ctx context.Context, userID, productID int64, reference string) (*models.Order, error) {
	args := m.Called(ctx, userID, productID, reference)
	created, _ := args.Get(0).(*models.Order)
	return created, args.Error(1)
}

func (m *OrderRepositoryMock) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderRepositoryMock) SettleOrder(ctx context.Context, id int64, status string, creditGrant int64) (*models.Order, error) {
	args := m.Called(ctx, id, status, creditGrant)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderRepositoryMock) ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*models.Order)
	return orders, args.Error(1)
}

func (m *OrderRepositoryMock) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*models.Order)
	return orders, args.Error(1)
}

type ProductRepositoryMock struct {
	mock.Mock
}

func (m *ProductRepositoryMock) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) PushNotification(ctx context.Context, userID int64, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}

func (m *NotifierMock) NotifyAdmins(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(orders *OrderRepositoryMock, products *ProductRepositoryMock, notifier *NotifierMock) *Service {
	return New(newNoopLogger(), orders, products, notifier, 1000, 10)
}

func TestService_CreateCreditOrder(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	user := &models.User{ID: 100001, Username: "testuser"}

	orders.On("InsertOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.UserID == user.ID &&
			o.Type == models.OrderTypeCredit &&
			o.Amount == 5000 &&
			o.ProofImage == "proof.png" &&
			o.Status == models.OrderStatusPending &&
			o.Reference != ""
	})).Return(&models.Order{ID: 1, Status: models.OrderStatusPending}, nil).Once()
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := service.CreateCreditOrder(context.Background(), user, 5000, "proof.png")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, created.Status)

	orders.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_CreateCreditOrder_BelowMinimum(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	user := &models.User{ID: 100001, Username: "testuser"}

	_, err := service.CreateCreditOrder(context.Background(), user, 999, "proof.png")
	assert.ErrorIs(t, err, ErrBelowMinimum)
	orders.AssertNotCalled(t, "InsertOrder", mock.Anything, mock.Anything)
}

func TestService_CreateCreditOrder_NotifyFailureIsNotFatal(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	user := &models.User{ID: 100001, Username: "testuser"}

	orders.On("InsertOrder", mock.Anything, mock.Anything).
		Return(&models.Order{ID: 1}, nil).Once()
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything).
		Return(errors.New("storage down")).Once()

	_, err := service.CreateCreditOrder(context.Background(), user, 2000, "proof.png")
	assert.NoError(t, err)
}

func TestService_CreateProductOrder(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	user := &models.User{ID: 100001, Username: "testuser"}

	products.On("GetProduct", mock.Anything, int64(7)).
		Return(&models.Product{ID: 7, Name: "1000 Points", PriceCr: 120, Available: true}, nil).Once()
	orders.On("PurchaseProduct", mock.Anything, user.ID, int64(7), mock.Anything).
		Return(&models.Order{ID: 2, Status: models.OrderStatusApproved}, nil).Once()
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := service.CreateProductOrder(context.Background(), user, 7)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, created.Status)

	orders.AssertExpectations(t)
}

func TestService_CreateProductOrder_Unavailable(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	user := &models.User{ID: 100001, Username: "testuser"}

	products.On("GetProduct", mock.Anything, int64(7)).
		Return(&models.Product{ID: 7, Available: false}, nil).Once()

	_, err := service.CreateProductOrder(context.Background(), user, 7)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	orders.AssertNotCalled(t, "PurchaseProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateProductOrder_InsufficientCredits(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	user := &models.User{ID: 100001, Username: "testuser"}

	products.On("GetProduct", mock.Anything, int64(7)).
		Return(&models.Product{ID: 7, PriceCr: 9000, Available: true}, nil).Once()
	orders.On("PurchaseProduct", mock.Anything, user.ID, int64(7), mock.Anything).
		Return(nil, storage.ErrInsufficientCredits).Once()

	_, err := service.CreateProductOrder(context.Background(), user, 7)
	assert.ErrorIs(t, err, storage.ErrInsufficientCredits)
}

func TestService_SetStatus_ApproveCreditOrder(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	orders.On("GetOrder", mock.Anything, int64(5)).
		Return(&models.Order{ID: 5, UserID: 100001, Type: models.OrderTypeCredit, Amount: 5000, Status: models.OrderStatusPending}, nil).Once()
	// 5000 MMK по курсу 10 дают 500 кредитов
	orders.On("SettleOrder", mock.Anything, int64(5), models.OrderStatusApproved, int64(500)).
		Return(&models.Order{ID: 5, UserID: 100001, Status: models.OrderStatusApproved}, nil).Once()
	notifier.On("PushNotification", mock.Anything, int64(100001),
		"Credit purchase approved! 500 credits added to your account.").Return(nil).Once()

	updated, err := service.SetStatus(context.Background(), 5, models.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, updated.Status)

	orders.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_SetStatus_RejectCreditOrder(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	orders.On("GetOrder", mock.Anything, int64(5)).
		Return(&models.Order{ID: 5, UserID: 100001, Type: models.OrderTypeCredit, Amount: 5000, Status: models.OrderStatusPending}, nil).Once()
	orders.On("SettleOrder", mock.Anything, int64(5), models.OrderStatusRejected, int64(0)).
		Return(&models.Order{ID: 5, UserID: 100001, Status: models.OrderStatusRejected}, nil).Once()
	notifier.On("PushNotification", mock.Anything, int64(100001),
		"Your order has been rejected.").Return(nil).Once()

	updated, err := service.SetStatus(context.Background(), 5, models.OrderStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, updated.Status)
}

func TestService_SetStatus_AlreadySettled(t *testing.T) {
	orders := new(OrderRepositoryMock)
	products := new(ProductRepositoryMock)
	notifier := new(NotifierMock)
	service := newService(orders, products, notifier)

	orders.On("GetOrder", mock.Anything, int64(5)).
		Return(&models.Order{ID: 5, UserID: 100001, Type: models.OrderTypeCredit, Amount: 5000, Status: models.OrderStatusApproved}, nil).Once()
	orders.On("SettleOrder", mock.Anything, int64(5), models.OrderStatusApproved, int64(500)).
		Return(nil, storage.ErrOrderNotPending).Once()

	_, err := service.SetStatus(context.Background(), 5, models.OrderStatusApproved)
	assert.ErrorIs(t, err, storage.ErrOrderNotPending)
	notifier.AssertNotCalled(t, "PushNotification", mock.Anything, mock.Anything, mock.Anything)
}
