package modes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	m, ok := c.Get("focus-run")
	if !ok {
		t.Fatalf("focus-run missing")
	}
	if m.MaxScore != 5000 || m.DurationSec != 60 {
		t.Fatalf("unexpected focus-run config: %+v", m)
	}
	all := c.All()
	if len(all) != 3 || all[0].Key != "focus-run" || all[1].Key != "deep-focus" || all[2].Key != "recall-ladder" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if _, ok := c.Get("speed-run"); ok {
		t.Fatalf("unknown mode resolved")
	}
	if c.Label("deep-focus") != "Deep Focus" || c.Label("nope") != "nope" {
		t.Fatalf("unexpected labels")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].MaxScore = 1
	if m, _ := c.Get("focus-run"); m.MaxScore != 5000 {
		t.Fatalf("catalog mutated through All()")
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := c.Get("recall-ladder"); !ok {
		t.Fatalf("expected default catalog")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modes.toml")
	data := `
[[mode]]
key = "reflex"
label = "Reflex Dash"
duration-sec = 45
max-score = 3000

[[mode]]
key = "focus-run"
label = "Focus Run"
duration-sec = 60
max-score = 5000
memory-base = 4
memory-max = 8
math-max = 30
flash-ms = 2000

[[mode]]
key = "recall-ladder"
duration-sec = 90
max-score = 8000

[[mode]]
key = "deep-focus"
duration-sec = 180
max-score = 15000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, ok := c.Get("reflex")
	if !ok || m.DurationSec != 45 || m.MaxScore != 3000 {
		t.Fatalf("unexpected reflex mode: %+v", m)
	}
	if c.All()[0].Key != "reflex" {
		t.Fatalf("file order not kept")
	}
}

// requiredModes — обязательные режимы, к которым тест дописывает проверяемый.
const requiredModes = `
[[mode]]
key = "focus-run"
duration-sec = 60
max-score = 5000

[[mode]]
key = "recall-ladder"
duration-sec = 90
max-score = 8000

[[mode]]
key = "deep-focus"
duration-sec = 180
max-score = 15000
`

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no key":          requiredModes + "[[mode]]\nlabel = \"x\"\nduration-sec = 1\nmax-score = 1\n",
		"zero cap":        requiredModes + "[[mode]]\nkey = \"x\"\nduration-sec = 1\nmax-score = 0\n",
		"duplicate":       requiredModes + "[[mode]]\nkey = \"x\"\nduration-sec = 1\nmax-score = 1\n[[mode]]\nkey = \"x\"\nduration-sec = 1\nmax-score = 1\n",
		"dot in key":      requiredModes + "[[mode]]\nkey = \"speed.run\"\nduration-sec = 1\nmax-score = 1\n",
		"key too long":    requiredModes + "[[mode]]\nkey = \"a-very-long-mode-key-over-24-chars\"\nduration-sec = 1\nmax-score = 1\n",
		"padded key":      requiredModes + "[[mode]]\nkey = \" reflex\"\nduration-sec = 1\nmax-score = 1\n",
		"no default mode": "[[mode]]\nkey = \"recall-ladder\"\nduration-sec = 1\nmax-score = 1\n[[mode]]\nkey = \"deep-focus\"\nduration-sec = 1\nmax-score = 1\n",
		"no deep focus":   "[[mode]]\nkey = \"focus-run\"\nduration-sec = 1\nmax-score = 1\n[[mode]]\nkey = \"recall-ladder\"\nduration-sec = 1\nmax-score = 1\n",
		"empty":           "",
		"broken":          "[[mode]\n",
	}
	for name, data := range cases {
		path := filepath.Join(t.TempDir(), "modes.toml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadAcceptsWireSafeKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modes.toml")
	data := requiredModes + "[[mode]]\nkey = \"speed_run 2\"\nduration-sec = 30\nmax-score = 100\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := c.Get("speed_run 2"); !ok {
		t.Fatalf("wire-safe key not loaded")
	}
}
