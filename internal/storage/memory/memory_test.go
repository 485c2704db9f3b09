package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

func createUser(t *testing.T, s *Storage, username string, credits int64) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), &models.User{
		Username:     username,
		PasswordHash: "hash",
		Credits:      credits,
	})
	require.NoError(t, err)
	return user
}

func createProduct(t *testing.T, s *Storage, name string, priceCr int64, available bool) *models.Product {
	t.Helper()
	product, err := s.CreateProduct(context.Background(), &models.Product{
		Operator:  "MPT",
		Category:  "Points",
		Name:      name,
		PriceMMK:  priceCr * 10,
		PriceCr:   priceCr,
		Available: available,
	})
	require.NoError(t, err)
	return product
}

func TestStorage_CreateUser_DuplicateUsername(t *testing.T) {
	s := New()
	createUser(t, s, "testuser", 0)

	_, err := s.CreateUser(context.Background(), &models.User{Username: "testuser", PasswordHash: "hash"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestStorage_AdjustCredits(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 100)

	require.NoError(t, s.AdjustCredits(context.Background(), user.ID, -40))

	fresh, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), fresh.Credits)

	err = s.AdjustCredits(context.Background(), user.ID, -100)
	assert.ErrorIs(t, err, storage.ErrInsufficientCredits)

	err = s.AdjustCredits(context.Background(), 999999, 10)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_PurchaseProduct(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 200)
	product := createProduct(t, s, "1000 Points", 120, true)

	order, err := s.PurchaseProduct(context.Background(), user.ID, product.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeProduct, order.Type)
	assert.Equal(t, models.OrderStatusApproved, order.Status)
	assert.Equal(t, int64(120), order.Amount)

	fresh, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), fresh.Credits)
}

func TestStorage_PurchaseProduct_InsufficientCredits(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 50)
	product := createProduct(t, s, "1000 Points", 120, true)

	_, err := s.PurchaseProduct(context.Background(), user.ID, product.ID, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrInsufficientCredits)

	fresh, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), fresh.Credits)
}

func TestStorage_PurchaseProduct_Unavailable(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 500)
	product := createProduct(t, s, "1000 Points", 120, false)

	_, err := s.PurchaseProduct(context.Background(), user.ID, product.ID, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}

// Два конкурентных запроса на товар стоимостью 60 при балансе 100:
// пройти должен ровно один, итоговый баланс 40.
func TestStorage_PurchaseProduct_Concurrent(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 100)
	product := createProduct(t, s, "500 Points", 60, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.PurchaseProduct(context.Background(), user.ID, product.ID, uuid.NewString())
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, storage.ErrInsufficientCredits)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	fresh, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), fresh.Credits)
}

func TestStorage_SettleOrder_ApproveGrantsOnce(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 0)

	order, err := s.InsertOrder(context.Background(), &models.Order{
		Reference: uuid.NewString(),
		UserID:    user.ID,
		Type:      models.OrderTypeCredit,
		Amount:    5000,
		Status:    models.OrderStatusPending,
	})
	require.NoError(t, err)

	settled, err := s.SettleOrder(context.Background(), order.ID, models.OrderStatusApproved, 500)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, settled.Status)

	fresh, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), fresh.Credits)

	// Повторное одобрение не проходит и кредиты не дублирует.
	_, err = s.SettleOrder(context.Background(), order.ID, models.OrderStatusApproved, 500)
	assert.ErrorIs(t, err, storage.ErrOrderNotPending)

	fresh, err = s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), fresh.Credits)
}

func TestStorage_SettleOrder_NotFound(t *testing.T) {
	s := New()

	_, err := s.SettleOrder(context.Background(), 12345, models.OrderStatusRejected, 0)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
}

func TestStorage_BroadcastNotification(t *testing.T) {
	s := New()
	first := createUser(t, s, "first", 0)
	second := createUser(t, s, "second", 0)
	third := createUser(t, s, "third", 0)

	count, err := s.BroadcastNotification(context.Background(), "maintenance tonight", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = s.BroadcastNotification(context.Background(), "just for you", []int64{first.ID, third.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	fresh, err := s.GetUserByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.NotContains(t, fresh.Notifications, "just for you")
	assert.Contains(t, fresh.Notifications, "maintenance tonight")
}

func TestStorage_NotifyAdmins(t *testing.T) {
	s := New()
	admin, err := s.CreateUser(context.Background(), &models.User{
		Username:     "admin",
		PasswordHash: "hash",
		IsAdmin:      true,
	})
	require.NoError(t, err)
	user := createUser(t, s, "testuser", 0)

	require.NoError(t, s.NotifyAdmins(context.Background(), "new credit order"))

	freshAdmin, err := s.GetUserByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Contains(t, freshAdmin.Notifications, "new credit order")

	freshUser, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotContains(t, freshUser.Notifications, "new credit order")
}

func TestStorage_ClearNotifications(t *testing.T) {
	s := New()
	user := createUser(t, s, "testuser", 0)

	require.NoError(t, s.PushNotification(context.Background(), user.ID, "hello"))
	require.NoError(t, s.ClearNotifications(context.Background(), user.ID))

	fresh, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Notifications)
}

func TestNewWithDemoData(t *testing.T) {
	s := NewWithDemoData()

	admin, err := s.GetUserByUsername(context.Background(), "tw")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	user, err := s.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	products, err := s.ListProducts(context.Background(), true)
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	accounts, err := s.ListPaymentAccounts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
