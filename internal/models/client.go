package models

import "time"

// Client представляет клиента (заказчика) пользователя.
type Client struct {
	ID          int       `json:"id"`
	UserUID     string    `json:"-"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DummyClient используется для приёма данных клиента из JSON-запроса.
type DummyClient struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=50"`
	Address     string `json:"address"`
}
