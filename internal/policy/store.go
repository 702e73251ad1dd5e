package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store reads and mutates the policy file. Writes never touch the visible
// file directly: the full updated policy goes to a randomly named temp file
// in the same directory and is renamed over the original, so a concurrent
// reader sees the complete prior or the complete new version, never a mix.
// No locking is needed on the read path.
type Store struct {
	Path string
}

// Load reads the current policy. A missing file is an empty policy, not an
// error, so a fresh install starts with no exclusions.
func (s *Store) Load() (Policy, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Policy{}, nil
		}
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := json.Unmarshal(b, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy %s: %w", s.Path, err)
	}
	return p, nil
}

// AddExcludedWord appends word to the named category and commits the whole
// policy via write-to-temp-then-rename. Append means append: adding the same
// word twice leaves it in the list twice. A rename failure is fatal to this
// mutation only; the visible file is untouched.
func (s *Store) AddExcludedWord(cat Category, word string) error {
	if word == "" {
		return errors.New("policy: empty word")
	}

	p, err := s.Load()
	if err != nil {
		return err
	}
	p.append(cat, word)

	b, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Random temp name so concurrent mutations from the command surface
	// cannot clobber each other's scratch file.
	tmp := filepath.Join(dir, uuid.NewString())
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit policy: %w", err)
	}
	return nil
}
