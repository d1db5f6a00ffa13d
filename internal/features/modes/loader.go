// Package modes — loader.go читает таблицу режимов из TOML-файла (MODES_FILE).
//
// Формат файла:
//
//	[[mode]]
//	key = "focus-run"
//	label = "Focus Run"
//	duration-sec = 60
//	max-score = 5000
package modes

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"serotonyl.ru/brain-trainer/internal/common"
)

var errEmpty = errors.New("каталог режимов пуст")

func errDuplicate(key string) error {
	return fmt.Errorf("режим %q описан дважды", key)
}

// fileConfig — структура TOML-файла.
type fileConfig struct {
	Modes []Mode `toml:"mode"`
}

// Load читает каталог из path. Пустой путь или отсутствующий файл — не ошибка,
// в этом случае возвращается стандартный каталог.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("не удалось проверить файл режимов: %w", err)
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать файл режимов: %w", err)
	}
	return NewCatalog(cfg.Modes)
}

// validate проверяет один режим.
func validate(m Mode) error {
	switch {
	case m.Key == "":
		return errors.New("у режима нет ключа")
	case common.SanitizeName(m.Key) != m.Key:
		// Ключ из запроса очищается так же, иначе режим не найти
		return fmt.Errorf("режим %q: ключ допускает только [A-Za-z0-9 _-] и до %d символов", m.Key, common.MaxNameLength)
	case m.DurationSec <= 0:
		return fmt.Errorf("режим %q: duration-sec должен быть > 0", m.Key)
	case m.MaxScore <= 0:
		return fmt.Errorf("режим %q: max-score должен быть > 0", m.Key)
	}
	return nil
}
