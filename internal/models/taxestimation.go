package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxEstimation представляет налоговый резерв пользователя: введённый
// процент и рассчитанную сумму к откладыванию. На пользователя приходится
// не более одной записи. EstimatedAmountSetAside всегда вычисляется
// сервером из процента и суммы дохода на момент расчёта, клиент это поле
// не задаёт.
type TaxEstimation struct {
	UserUID                 string          `json:"-"`
	TaxPercentage           decimal.Decimal `json:"tax_percentage"`
	EstimatedAmountSetAside decimal.Decimal `json:"estimated_amount_set_aside"`
	LastCalculatedAt        time.Time       `json:"last_calculated_at"`
}

// DummyTaxEstimation используется для приёма процента из JSON-запроса.
// Поле указатель, чтобы значение 0 проходило проверку required.
type DummyTaxEstimation struct {
	TaxPercentage *float64 `json:"tax_percentage" validate:"required,gte=0,lte=100"`
}
