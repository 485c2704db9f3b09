package models

import "time"

// Product представляет товар пополнения мобильного оператора.
// Цена хранится в двух единицах: в местной валюте (MMK) и в кредитах.
type Product struct {
	ID        int64     `json:"id"`
	Operator  string    `json:"operator"` // Название оператора, например MPT или Ooredoo
	Category  string    `json:"category"` // Категория товара: Recharge, Data и т.п.
	Name      string    `json:"name"`
	PriceMMK  int64     `json:"price_mmk"` // Цена в валюте, неотрицательная
	PriceCr   int64     `json:"price_cr"`  // Цена в кредитах, неотрицательная
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupedProducts группирует товары по оператору, затем по категории —
// формат, в котором каталог отдается клиенту.
type GroupedProducts map[string]map[string][]Product

// GroupProducts раскладывает плоский список товаров по операторам и категориям.
func GroupProducts(products []*Product) GroupedProducts {
	grouped := make(GroupedProducts)
	for _, p := range products {
		if _, ok := grouped[p.Operator]; !ok {
			grouped[p.Operator] = make(map[string][]Product)
		}
		grouped[p.Operator][p.Category] = append(grouped[p.Operator][p.Category], *p)
	}
	return grouped
}
