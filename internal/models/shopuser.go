package models

import "time"

// ShopUser представляет запись витринного сервиса регистрации.
// Таблица изолирована от основной учётной системы.
type ShopUser struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
