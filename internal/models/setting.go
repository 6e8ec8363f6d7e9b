package models

import "time"

// Setting представляет пользовательские настройки. На пользователя
// приходится ровно одна запись, создаётся при регистрации.
type Setting struct {
	UserUID       string    `json:"-"`
	Currency      string    `json:"currency"`
	Timezone      string    `json:"timezone"`
	InvoicePrefix string    `json:"invoice_prefix,omitempty"`
	PaymentTerms  string    `json:"payment_terms,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DummySetting используется для приёма настроек из JSON-запроса.
type DummySetting struct {
	Currency      string `json:"currency" validate:"required,max=10"`
	Timezone      string `json:"timezone" validate:"required,max=50"`
	InvoicePrefix string `json:"invoice_prefix" validate:"omitempty,max=20"`
	PaymentTerms  string `json:"payment_terms"`
}
