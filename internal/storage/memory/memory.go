// Package memory реализует резервное хранилище магазина в памяти процесса.
// Оно включается, когда PostgreSQL недоступен при старте, и реализует
// тот же набор методов, что и основное хранилище: бизнес-логика
// не знает, с каким бэкендом работает.
//
// Все составные мутации (списание кредитов с проверкой баланса, смена
// статуса заказа с начислением) выполняются под одним мьютексом, поэтому
// конкурентные запросы видят согласованное состояние.
package memory

import (
	"math/rand"
	"sync"
	"time"

	"github.com/magabrotheeeer/atompoint/internal/models"
)

// Storage хранит данные магазина в памяти процесса.
type Storage struct {
	mu sync.Mutex

	users    map[int64]*models.User
	products map[int64]*models.Product
	orders   map[int64]*models.Order
	accounts map[string]*models.PaymentAccount
	settings map[string]*models.Setting

	nextProductID int64
	nextOrderID   int64
}

// New создает пустое хранилище в памяти.
func New() *Storage {
	return &Storage{
		users:         make(map[int64]*models.User),
		products:      make(map[int64]*models.Product),
		orders:        make(map[int64]*models.Order),
		accounts:      make(map[string]*models.PaymentAccount),
		settings:      make(map[string]*models.Setting),
		nextProductID: 1,
		nextOrderID:   1,
	}
}

// NewWithDemoData создает хранилище с демонстрационным набором данных:
// администратором, тестовым пользователем, каталогом и платёжными реквизитами.
func NewWithDemoData() *Storage {
	s := New()
	now := time.Now()

	admin := &models.User{
		ID: s.newUserID(),
		// bcrypt-хэш пароля Kp@794628
		Username:       "tw",
		PasswordHash:   "$2b$12$oWve31DF4cGCa5eJw.9SrOYFrSWkmeun9b2/2wIyepruDoyRJjYXe",
		IsAdmin:        true,
		Credits:        1000000,
		SecurityAmount: 50000,
		Notifications:  []string{"Welcome to Atom Point Web! (Admin Account)"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[admin.ID] = admin

	tester := &models.User{
		ID: s.newUserID(),
		// bcrypt-хэш пароля test123
		Username:       "testuser",
		PasswordHash:   "$2b$12$rQd5sh6szYGLGDVeFBnI8.2HJT8R8Ue8yF4AkBs.3Rvx5hF5vJ8SZW",
		Credits:        500,
		SecurityAmount: 5000,
		Notifications:  []string{"Welcome to Atom Point Web!"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[tester.ID] = tester

	demoProducts := []models.Product{
		{Operator: "MPT", Category: "Recharge", Name: "1000 MMK", PriceMMK: 1000, PriceCr: 100, Available: true},
		{Operator: "MPT", Category: "Recharge", Name: "3000 MMK", PriceMMK: 3000, PriceCr: 300, Available: true},
		{Operator: "Ooredoo", Category: "Recharge", Name: "1000 MMK", PriceMMK: 1000, PriceCr: 100, Available: true},
		{Operator: "Telenor", Category: "Data", Name: "1GB Daily", PriceMMK: 800, PriceCr: 80, Available: true},
	}
	for _, p := range demoProducts {
		p.ID = s.nextProductID
		s.nextProductID++
		p.CreatedAt, p.UpdatedAt = now, now
		product := p
		s.products[product.ID] = &product
	}

	s.accounts["KPay"] = &models.PaymentAccount{
		Provider: "KPay", Name: "ATOM Point Admin", Number: "09 987 654 321",
		Active: true, UpdatedAt: now,
	}
	s.accounts["Wave Pay"] = &models.PaymentAccount{
		Provider: "Wave Pay", Name: "ATOM Point Services", Number: "09 123 456 789",
		Active: true, UpdatedAt: now,
	}
	s.settings["adminContact"] = &models.Setting{
		Key: "adminContact", Value: "https://t.me/CEO_METAVERSE", UpdatedAt: now,
	}
	return s
}

// newUserID подбирает свободный шестизначный идентификатор.
// Вызывается только под мьютексом либо до публикации хранилища.
func (s *Storage) newUserID() int64 {
	for {
		id := int64(100000 + rand.Intn(900000))
		if _, exists := s.users[id]; !exists {
			return id
		}
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Notifications = append([]string(nil), u.Notifications...)
	return &c
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	if o.ProductID != nil {
		productID := *o.ProductID
		c.ProductID = &productID
	}
	return &c
}
