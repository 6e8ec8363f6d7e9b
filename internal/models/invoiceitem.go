package models

import "github.com/shopspring/decimal"

// InvoiceItem представляет строку счёта. Сумма строки считается на
// сервере как quantity * unit_price и не принимается из запроса.
type InvoiceItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// DummyInvoiceItem используется для приёма строки счёта из JSON-запроса.
type DummyInvoiceItem struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}
