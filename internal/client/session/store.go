// Package session реализует клиентскую сессию: долговременное хранение
// токена и идентичности пользователя и машину состояний авторизации.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession возвращается, когда сохранённой сессии нет или она неполна.
var ErrNoSession = errors.New("no stored session")

// State — сохраняемый снимок сессии. Три поля живут и умирают вместе:
// частично заполненный снимок приравнивается к отсутствующему.
type State struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

// complete сообщает, заполнены ли все поля снимка.
func (s State) complete() bool {
	return s.AccessToken != "" && s.UserID != "" && s.Username != ""
}

// Store хранит снимок сессии в JSON-файле. Запись идёт через временный
// файл и переименование, чтобы никогда не оставлять полузаписанный снимок.
type Store struct {
	path string
}

// NewStore создает Store с указанным путём к файлу сессии.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load читает снимок сессии. Отсутствующий файл, нечитаемый JSON или
// неполный снимок дают ErrNoSession, при этом мусорный файл удаляется.
func (s *Store) Load() (State, error) {
	const op = "session.store.Load"

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, ErrNoSession
		}
		return State{}, fmt.Errorf("%s: %w", op, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		_ = s.Clear()
		return State{}, ErrNoSession
	}
	if !state.complete() {
		_ = s.Clear()
		return State{}, ErrNoSession
	}
	return state, nil
}

// Save записывает снимок сессии одним документом.
func (s *Store) Save(state State) error {
	const op = "session.store.Save"

	if !state.complete() {
		return fmt.Errorf("%s: incomplete session state", op)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет сохранённый снимок. Отсутствие файла не считается ошибкой.
func (s *Store) Clear() error {
	const op = "session.store.Clear"

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
