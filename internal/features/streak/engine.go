// Package streak — engine.go вычисляет следующее состояние стрика.
// Функция чистая: одна и та же используется сервером и офлайн-режимом клиента.
package streak

import "serotonyl.ru/brain-trainer/internal/calendar"

// Compute вычисляет состояние стрика после отправки счёта score в день today.
//
// Правила:
//   - score == 0 → ничего не меняется, даже дата последней тренировки
//   - первой тренировки не было → серия 1
//   - тот же день → серия не меняется
//   - прошёл ровно 1 день → серия +1
//   - разрыв 2+ дня или дата в будущем (сбитые часы) → серия 1
//
// Рекорд обновляется как max(рекорд, новая серия).
func Compute(prev State, today string, score int64) State {
	if score == 0 {
		return prev
	}

	next := prev.StreakCount
	switch last := prev.LastPracticeKey(); {
	case last == "":
		next = 1
	case last == today:
		// Повторная тренировка в тот же день не увеличивает серию
	default:
		diff, err := calendar.DaysBetween(last, today)
		if err == nil && diff == 1 {
			next = prev.StreakCount + 1
		} else {
			next = 1
		}
	}

	best := prev.BestStreak
	if next > best {
		best = next
	}

	day := today
	return State{
		StreakCount:      next,
		BestStreak:       best,
		LastPracticeDate: &day,
	}
}
