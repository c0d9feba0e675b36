// Package history keeps analysis reports saved with `analyze --save`, one
// JSON file per entry.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/KaramelBytes/autoeda/internal/utils"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no entry matches an id.
var ErrNotFound = errors.New("history entry not found")

// ErrAmbiguous is returned when an id prefix matches several entries.
var ErrAmbiguous = errors.New("history id prefix is ambiguous")

const entryExt = ".json"

// Entry is one saved report.
type Entry struct {
	ID        string           `json:"id"`
	Source    string           `json:"source"`
	Target    string           `json:"target,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Report    *analysis.Report `json:"report"`
}

// Archive is a directory of saved entries.
type Archive struct {
	Dir string
}

// Open returns an archive rooted at dir. The directory is created lazily
// on the first Save.
func Open(dir string) *Archive { return &Archive{Dir: dir} }

// Save stores rep under a fresh id using an atomic write.
func (a *Archive) Save(source string, rep *analysis.Report) (*Entry, error) {
	if err := utils.EnsureDir(a.Dir); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	e := &Entry{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now(),
		Report:    rep,
	}
	if rep.Baseline != nil {
		e.Target = rep.Baseline.Target
	}
	data, err := utils.PrettyJSON(e)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(a.path(e.ID), data); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns every entry, newest first. A missing directory is an empty
// archive. Unreadable files are skipped.
func (a *Archive) List() ([]*Entry, error) {
	ids, err := a.ids()
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		e, err := a.read(id)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Load returns the entry whose id equals or uniquely starts with id.
func (a *Archive) Load(id string) (*Entry, error) {
	full, err := a.resolve(id)
	if err != nil {
		return nil, err
	}
	return a.read(full)
}

// Remove deletes the entry whose id equals or uniquely starts with id.
func (a *Archive) Remove(id string) (string, error) {
	full, err := a.resolve(id)
	if err != nil {
		return "", err
	}
	if err := os.Remove(a.path(full)); err != nil {
		return "", fmt.Errorf("remove entry: %w", err)
	}
	return full, nil
}

func (a *Archive) resolve(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}
	ids, err := a.ids()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, cand := range ids {
		if cand == id {
			return cand, nil
		}
		if strings.HasPrefix(cand, id) {
			matches = append(matches, cand)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s matches %d entries: %w", id, len(matches), ErrAmbiguous)
	}
}

func (a *Archive) ids() ([]string, error) {
	ents, err := os.ReadDir(a.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}
	var ids []string
	for _, de := range ents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, entryExt))
	}
	return ids, nil
}

func (a *Archive) read(id string) (*Entry, error) {
	b, err := os.ReadFile(a.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("parse entry %s: %w", id, err)
	}
	return &e, nil
}

func (a *Archive) path(id string) string { return filepath.Join(a.Dir, id+entryExt) }
