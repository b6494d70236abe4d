package domain

// UserSnapshot — read-only срез данных пользователя из справочника.
// Запрашивается заново на каждое создание заказа, никогда не кэшируется.
type UserSnapshot struct {
	ID    string
	Name  string
	Email string
}

// ProductSnapshot — read-only срез товара из каталога, включая остаток.
type ProductSnapshot struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Stock       int
}
