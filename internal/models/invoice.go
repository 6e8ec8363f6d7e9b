package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы счёта. Хранятся строкой, набор совпадает с ограничением в БД.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice представляет выставленный счёт пользователя.
// Денежные поля хранятся и передаются как decimal с двумя знаками.
type Invoice struct {
	ID                int              `json:"id"`
	UserUID           string           `json:"-"`
	ClientID          int              `json:"client_id"`
	InvoiceNumber     string           `json:"invoice_number"`
	IssueDate         time.Time        `json:"issue_date"`
	DueDate           time.Time        `json:"due_date"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	Status            string           `json:"status"`
	Notes             string           `json:"notes,omitempty"`
	PaymentGatewayFee *decimal.Decimal `json:"payment_gateway_fee,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// DummyInvoice используется для приёма данных счёта из JSON-запроса.
// Даты приходят строками в формате 2006-01-02, чтобы их можно было
// валидировать и парсить вручную.
type DummyInvoice struct {
	ClientID          int              `json:"client_id" validate:"required,gt=0"`
	InvoiceNumber     string           `json:"invoice_number" validate:"required,max=100"`
	IssueDate         string           `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate           string           `json:"due_date" validate:"required,datetime=2006-01-02"`
	TotalAmount       decimal.Decimal  `json:"total_amount" validate:"required"`
	Status            string           `json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	Notes             string           `json:"notes"`
	PaymentGatewayFee *decimal.Decimal `json:"payment_gateway_fee"`
}
