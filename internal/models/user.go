// Package models содержит доменные структуры приложения: пользователей,
// клиентов, счета, учёт времени, расходы, настройки и налоговую оценку,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	CompanyName  string    // Название компании (опционально)
	PhoneNumber  string    // Телефон (опционально)
	CreatedAt    time.Time // Дата регистрации
}
