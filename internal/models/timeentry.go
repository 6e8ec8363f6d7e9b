package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry представляет запись учёта рабочего времени.
type TimeEntry struct {
	ID              int              `json:"id"`
	UserUID         string           `json:"-"`
	ClientID        *int             `json:"client_id,omitempty"`
	ProjectName     string           `json:"project_name,omitempty"`
	Description     string           `json:"description,omitempty"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	IsBilled        bool             `json:"is_billed"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// DummyTimeEntry используется для приёма данных учёта времени из JSON-запроса.
type DummyTimeEntry struct {
	ClientID        *int             `json:"client_id"`
	ProjectName     string           `json:"project_name" validate:"omitempty,max=255"`
	Description     string           `json:"description"`
	StartTime       string           `json:"start_time" validate:"required"`
	EndTime         string           `json:"end_time"`
	DurationMinutes *int             `json:"duration_minutes" validate:"omitempty,gte=0"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate"`
	IsBilled        bool             `json:"is_billed"`
}
