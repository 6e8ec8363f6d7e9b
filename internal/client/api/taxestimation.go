package api

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/payasyougo/payasyougo/internal/models"
)

// taxEstimationData — полезная нагрузка ответов по налоговой оценке.
type taxEstimationData struct {
	TaxEstimation *models.TaxEstimation `json:"tax_estimation"`
}

// taxWriteGuard защищает от двойной отправки: создание и обновление
// делят один флаг, повторный вызов до завершения первого получает ErrBusy.
type taxWriteGuard struct {
	busy atomic.Bool
}

func (g *taxWriteGuard) acquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *taxWriteGuard) release() {
	g.busy.Store(false)
}

// GetTaxEstimation возвращает налоговую оценку текущего пользователя.
// Отсутствие записи приходит как ErrNotFound и означает, что пользователь
// ещё не задавал процент.
func (c *Client) GetTaxEstimation(ctx context.Context) (*models.TaxEstimation, error) {
	var data taxEstimationData
	if err := c.do(ctx, http.MethodGet, "/api/tax-estimation", nil, &data, true); err != nil {
		return nil, err
	}
	return data.TaxEstimation, nil
}

// CreateTaxEstimation сохраняет процент впервые. Пока запрос выполняется,
// повторные создания и обновления отклоняются с ErrBusy.
func (c *Client) CreateTaxEstimation(ctx context.Context, percentage float64) (*models.TaxEstimation, error) {
	if !c.taxWrite.acquire() {
		return nil, ErrBusy
	}
	defer c.taxWrite.release()

	body := map[string]float64{"tax_percentage": percentage}
	var data taxEstimationData
	if err := c.do(ctx, http.MethodPost, "/api/tax-estimation", body, &data, true); err != nil {
		return nil, err
	}
	return data.TaxEstimation, nil
}

// UpdateTaxEstimation пересчитывает оценку с новым процентом. Делит
// флаг занятости с CreateTaxEstimation.
func (c *Client) UpdateTaxEstimation(ctx context.Context, percentage float64) (*models.TaxEstimation, error) {
	if !c.taxWrite.acquire() {
		return nil, ErrBusy
	}
	defer c.taxWrite.release()

	body := map[string]float64{"tax_percentage": percentage}
	var data taxEstimationData
	if err := c.do(ctx, http.MethodPut, "/api/tax-estimation", body, &data, true); err != nil {
		return nil, err
	}
	return data.TaxEstimation, nil
}
