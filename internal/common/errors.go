// Package common — errors.go определяет ошибки, которые используются во всех модулях.
// Обработчики HTTP различают их через errors.Is и отдают клиенту
// короткий код ошибки ("invalid_payload", "score_out_of_range", ...).
package common

import (
	"errors"
	"fmt"
)

// Ошибки входных данных (исправимы пользователем, HTTP 400)
var (
	// ErrInvalidPayload — некорректные или отсутствующие поля запроса
	ErrInvalidPayload = errors.New("некорректные данные запроса")
	// ErrScoreOutOfRange — счёт больше потолка режима
	ErrScoreOutOfRange = errors.New("счёт превышает максимум режима")
)

// Ошибки хранилища
var (
	// ErrNotFound — запись не найдена (для чтения это не сбой, а обычный исход)
	ErrNotFound = errors.New("запись не найдена")
	// ErrStorage — сбой чтения или записи в БД (HTTP 500)
	ErrStorage = errors.New("ошибка хранилища")
)

// Ошибки доступа
var (
	// ErrRateLimited — слишком много запросов с одного адреса
	ErrRateLimited = errors.New("слишком много запросов, подождите")
	// ErrUnauthorized — неверный пароль администратора
	ErrUnauthorized = errors.New("неверный пароль администратора")
)

// StorageError оборачивает ошибку драйвера так, чтобы errors.Is(err, ErrStorage) == true.
// Исходная ошибка тоже остаётся доступной через errors.Is/As.
//
// Пример:
//
//	return common.StorageError("обновление профиля", err)
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
