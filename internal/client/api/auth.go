package api

import (
	"context"
	"net/http"

	"github.com/payasyougo/payasyougo/internal/client/session"
)

// loginData — полезная нагрузка ответа на вход.
type loginData struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// Login выполняет вход и сохраняет новую сессию. Неверные учётные
// данные возвращаются как ErrValidation.
func (c *Client) Login(ctx context.Context, username, password string) (session.Snapshot, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var data loginData
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &data, false); err != nil {
		return c.session.Current(), err
	}

	return c.session.Login(session.State{
		AccessToken: data.Token,
		UserID:      data.User.ID,
		Username:    data.User.Username,
	}), nil
}

// Register создает учётную запись. Сессия при этом не открывается,
// вызывающий делает Login отдельно.
func (c *Client) Register(ctx context.Context, email, username, password string) error {
	body := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/api/register", body, nil, false)
}

// Logout завершает сессию локально. Серверного вызова нет: токен
// просто перестаёт использоваться.
func (c *Client) Logout() session.Snapshot {
	return c.session.Logout()
}
