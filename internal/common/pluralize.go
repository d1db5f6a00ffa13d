// Package common — pluralize.go содержит форматирование чисел для сообщений
// (дайджест в Telegram, вывод CLI).
package common

import "fmt"

// PluralizeDays возвращает "day" или "days" для числа n.
func PluralizeDays(n int) string {
	if n == 1 || n == -1 {
		return "day"
	}
	return "days"
}

// FormatDays создаёт строку вида "3 days".
func FormatDays(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeDays(n))
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(12350) → "12 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	rest := n / 1000
	last := n % 1000
	return fmt.Sprintf("%s %03d", FormatNumber(rest), last)
}
