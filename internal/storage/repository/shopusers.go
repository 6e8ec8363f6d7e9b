package repository

import (
	"context"
	"fmt"

	"github.com/payasyougo/payasyougo/internal/models"
)

// InsertShopUser вставляет запись витринной регистрации и возвращает её ID.
func (s *Storage) InsertShopUser(ctx context.Context, user models.ShopUser) (int, error) {
	const op = "repository.InsertShopUser"

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	query := `INSERT INTO shop_users (name, email, phone, password)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	var id int
	err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Phone, user.Password).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
