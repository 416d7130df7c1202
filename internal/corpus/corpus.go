// Package corpus reads training phrases from TOML files and keeps the
// classifier in step with a directory of them.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aide-assistant/aide/internal/intent"
)

// Phrase is one labelled training utterance.
type Phrase struct {
	Label string `toml:"label"`
	Text  string `toml:"text"`
}

type file struct {
	Phrases []Phrase `toml:"phrase"`
}

// PhraseStore persists phrases. *store.Store satisfies it.
type PhraseStore interface {
	AddPhrase(ctx context.Context, label, text string) (bool, error)
}

// Load parses a phrase file. Labels are normalised to lower case and must
// name a known intent; blank texts are rejected.
func Load(path string) ([]Phrase, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("corpus: load %s: %w", path, err)
	}

	out := make([]Phrase, 0, len(f.Phrases))
	for i, p := range f.Phrases {
		label, ok := intent.ParseLabel(strings.ToLower(strings.TrimSpace(p.Label)))
		if !ok {
			return nil, fmt.Errorf("corpus: %s: phrase %d: unknown label %q", path, i+1, p.Label)
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			return nil, fmt.Errorf("corpus: %s: phrase %d: empty text", path, i+1)
		}
		out = append(out, Phrase{Label: label.String(), Text: text})
	}
	return out, nil
}

// Files lists the *.toml files directly inside dir, sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus: read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isPhraseFile(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(out)
	return out, nil
}

func isPhraseFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".toml") && !strings.HasPrefix(name, ".")
}

// Import stores phrases and reports how many were new. tick, if non-nil,
// is called once per phrase.
func Import(ctx context.Context, st PhraseStore, phrases []Phrase, tick func()) (int, error) {
	added := 0
	for _, p := range phrases {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		ok, err := st.AddPhrase(ctx, p.Label, p.Text)
		if err != nil {
			return added, fmt.Errorf("corpus: import %s/%q: %w", p.Label, p.Text, err)
		}
		if ok {
			added++
		}
		if tick != nil {
			tick()
		}
	}
	return added, nil
}
