// Package modes описывает игровые режимы: длительность, потолок счёта
// и параметры генерации заданий.
// Каталог неизменяем после создания и передаётся в сервисы явно.
package modes

import (
	"fmt"
	"sort"
)

// Ключи режимов, на которые опираются отправка счёта и план.
const (
	// DefaultKey — режим, который подставляется, если клиент его не указал.
	DefaultKey = "focus-run"
	// RecallKey — второе базовое задание плана.
	RecallKey = "recall-ladder"
	// DeepFocusKey — длинная сессия, которую план добавляет при серии от трёх дней.
	DeepFocusKey = "deep-focus"
)

// requiredKeys должны быть в любом каталоге.
var requiredKeys = []string{DefaultKey, RecallKey, DeepFocusKey}

// Mode — настройки одного режима.
type Mode struct {
	Key         string `json:"key" toml:"key"`
	Label       string `json:"label" toml:"label"`
	DurationSec int    `json:"durationSec" toml:"duration-sec"`
	MaxScore    int64  `json:"maxScore" toml:"max-score"`
	MemoryBase  int    `json:"memoryBase" toml:"memory-base"`
	MemoryMax   int    `json:"memoryMax" toml:"memory-max"`
	MathMax     int    `json:"mathMax" toml:"math-max"`
	FlashMs     int    `json:"flashMs" toml:"flash-ms"`
}

// Catalog — неизменяемый набор режимов с сохранённым порядком.
type Catalog struct {
	order []string
	byKey map[string]Mode
}

// NewCatalog создаёт каталог из списка режимов. Порядок списка сохраняется.
func NewCatalog(list []Mode) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]Mode, len(list))}
	for _, m := range list {
		if err := validate(m); err != nil {
			return nil, err
		}
		if _, dup := c.byKey[m.Key]; dup {
			return nil, errDuplicate(m.Key)
		}
		c.byKey[m.Key] = m
		c.order = append(c.order, m.Key)
	}
	if len(c.order) == 0 {
		return nil, errEmpty
	}
	for _, key := range requiredKeys {
		if _, ok := c.byKey[key]; !ok {
			return nil, fmt.Errorf("в каталоге нет обязательного режима %q", key)
		}
	}
	return c, nil
}

// Default возвращает стандартный набор режимов.
func Default() *Catalog {
	c, err := NewCatalog([]Mode{
		{Key: DefaultKey, Label: "Focus Run", DurationSec: 60, MaxScore: 5000, MemoryBase: 4, MemoryMax: 8, MathMax: 30, FlashMs: 2000},
		{Key: DeepFocusKey, Label: "Deep Focus", DurationSec: 180, MaxScore: 15000, MemoryBase: 5, MemoryMax: 10, MathMax: 40, FlashMs: 2600},
		{Key: RecallKey, Label: "Recall Ladder", DurationSec: 90, MaxScore: 8000, MemoryBase: 5, MemoryMax: 12, MathMax: 26, FlashMs: 1800},
	})
	if err != nil {
		// Стандартный набор статичен, ошибка здесь — баг в коде
		panic(err)
	}
	return c
}

// Get возвращает режим по ключу.
func (c *Catalog) Get(key string) (Mode, bool) {
	m, ok := c.byKey[key]
	return m, ok
}

// Label возвращает название режима или сам ключ, если режима нет.
func (c *Catalog) Label(key string) string {
	if m, ok := c.byKey[key]; ok {
		return m.Label
	}
	return key
}

// All возвращает копию списка режимов в порядке каталога.
func (c *Catalog) All() []Mode {
	out := make([]Mode, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return out
}

// Keys возвращает отсортированные ключи (для сообщений об ошибках).
func (c *Catalog) Keys() []string {
	keys := append([]string(nil), c.order...)
	sort.Strings(keys)
	return keys
}
