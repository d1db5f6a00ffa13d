// Package digest публикует ежедневную сводку таблицы лидеров в чат Telegram.
// render.go собирает текст сообщения и не делает никакого ввода-вывода.
package digest

import (
	"fmt"
	"strings"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/scores"
)

var medals = []string{"🥇", "🥈", "🥉"}

// Render собирает сводку: по блоку на каждый режим в порядке каталога.
//
// Пример:
//
//	🧠 Brain Accelerator — 2024-03-10
//
//	Focus Run
//	🥇 Ana — 1 200
//	🥈 Bo — 900
//
//	Deep Focus
//	пока нет результатов
func Render(catalog *modes.Catalog, day string, tops map[string][]scores.Score) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧠 Brain Accelerator — %s\n", day)

	for _, m := range catalog.All() {
		fmt.Fprintf(&sb, "\n%s\n", m.Label)

		list := tops[m.Key]
		if len(list) == 0 {
			sb.WriteString("пока нет результатов\n")
			continue
		}
		for i, s := range list {
			fmt.Fprintf(&sb, "%s %s — %s\n", place(i), s.Name, common.FormatNumber(s.Score))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// place возвращает медаль для первых трёх мест и номер для остальных.
func place(i int) string {
	if i < len(medals) {
		return medals[i]
	}
	return fmt.Sprintf("%d.", i+1)
}
