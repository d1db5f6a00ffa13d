// Package plan предлагает игроку задания на сегодня по длине его серии.
package plan

import "serotonyl.ru/brain-trainer/internal/features/modes"

// Task — одно предложенное задание.
type Task struct {
	Mode        string `json:"mode"`
	Label       string `json:"label"`
	Goal        string `json:"goal"`
	Reason      string `json:"reason"`
	DurationSec int    `json:"duration_sec"`
}

// Plan — план на сегодня (ответ GET /api/plan).
type Plan struct {
	Name             string  `json:"name"`
	StreakCount      int     `json:"streak_count"`
	LastPracticeDate *string `json:"last_practice_date"`
	Today            string  `json:"today"`
	Tasks            []Task  `json:"tasks"`
}

// DeepFocusStreak — с какой серии в план добавляется длинная сессия.
const DeepFocusStreak = 3

const defaultGoal = "1 session"

// template — задание без привязки к каталогу режимов.
type template struct {
	mode   string
	reason string
}

var (
	baseline = []template{
		{mode: modes.DefaultKey, reason: "Warm up attention and accuracy."},
		{mode: modes.RecallKey, reason: "Strengthen short-term recall."},
	}
	endurance = template{mode: modes.DeepFocusKey, reason: "Build sustained focus endurance."}
)
