// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: очистка имён, ограничение чисел, форматирование для сообщений.
package common

import (
	"strings"
)

// MaxNameLength — максимальная длина имени игрока и ключа режима.
const MaxNameLength = 24

// SanitizeName очищает имя игрока по правилам клиента и сервера:
// обрезает пробелы по краям, выбрасывает всё кроме [A-Za-z0-9 _-]
// и укорачивает результат до 24 символов.
//
// Примеры:
//
//	SanitizeName("  Ana ")           → "Ana"
//	SanitizeName("<script>")         → "script"
//	SanitizeName("Иван")             → ""
func SanitizeName(raw string) string {
	raw = strings.TrimSpace(raw)

	var sb strings.Builder
	for _, r := range raw {
		if !isNameRune(r) {
			continue
		}
		sb.WriteRune(r)
		if sb.Len() == MaxNameLength {
			break
		}
	}
	return sb.String()
}

// isNameRune проверяет, разрешён ли символ в имени.
func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '_', r == '-':
		return true
	}
	return false
}

// Clamp ограничивает n диапазоном [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
