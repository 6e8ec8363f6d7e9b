package services

import (
	"context"
	"log/slog"

	"github.com/payasyougo/payasyougo/internal/models"
)

// CreateItem добавляет строку к счёту пользователя и возвращает её ID.
// Сумма строки считается на сервере как quantity * unit_price.
func (s *InvoiceService) CreateItem(ctx context.Context, userUID string, invoiceID int, req models.DummyInvoiceItem) (int, error) {
	item := buildItem(invoiceID, req)

	id, err := s.repo.CreateInvoiceItem(ctx, userUID, *item)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new invoice item",
		slog.Int("id", id), slog.Int("invoice_id", invoiceID))
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "create",
		EntityType: "invoice_item",
		EntityID:   id,
	})
	return id, nil
}

// ListItems возвращает строки счёта пользователя. Для чужого или
// несуществующего счёта возвращается repository.ErrNotFound.
func (s *InvoiceService) ListItems(ctx context.Context, userUID string, invoiceID int) ([]*models.InvoiceItem, error) {
	if _, err := s.repo.ReadInvoice(ctx, userUID, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.ListInvoiceItems(ctx, userUID, invoiceID)
}

// ReadItem возвращает строку счёта по ID.
func (s *InvoiceService) ReadItem(ctx context.Context, userUID string, id int) (*models.InvoiceItem, error) {
	return s.repo.ReadInvoiceItem(ctx, userUID, id)
}

// UpdateItem обновляет строку счёта, пересчитывая её сумму.
func (s *InvoiceService) UpdateItem(ctx context.Context, userUID string, id int, req models.DummyInvoiceItem) error {
	item := buildItem(0, req)
	item.ID = id

	if err := s.repo.UpdateInvoiceItem(ctx, userUID, *item); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "invoice_item",
		EntityID:   id,
	})
	return nil
}

// RemoveItem удаляет строку счёта по ID.
func (s *InvoiceService) RemoveItem(ctx context.Context, userUID string, id int) error {
	if err := s.repo.RemoveInvoiceItem(ctx, userUID, id); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "delete",
		EntityType: "invoice_item",
		EntityID:   id,
	})
	return nil
}

func buildItem(invoiceID int, req models.DummyInvoiceItem) *models.InvoiceItem {
	return &models.InvoiceItem{
		InvoiceID:   invoiceID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Amount:      req.Quantity.Mul(req.UnitPrice).Round(2),
	}
}
