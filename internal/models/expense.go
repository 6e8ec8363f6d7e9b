package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense представляет расход пользователя.
type Expense struct {
	ID              int             `json:"id"`
	UserUID         string          `json:"-"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category,omitempty"`
	ExpenseDate     time.Time       `json:"expense_date"`
	ReceiptImageURL string          `json:"receipt_image_url,omitempty"`
	IsReimbursable  bool            `json:"is_reimbursable"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DummyExpense используется для приёма данных расхода из JSON-запроса.
type DummyExpense struct {
	Description     string          `json:"description" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Category        string          `json:"category" validate:"omitempty,max=100"`
	ExpenseDate     string          `json:"expense_date" validate:"required,datetime=2006-01-02"`
	ReceiptImageURL string          `json:"receipt_image_url" validate:"omitempty,max=255"`
	IsReimbursable  bool            `json:"is_reimbursable"`
}
