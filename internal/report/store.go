package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const reportFileExtension = ".json"

// Store persists reports.
type Store interface {
	Save(r *Report) error
	Get(id string) (*Report, error)
	List() ([]Summary, error)
	Delete(id string) error
}

// FileStore keeps one JSON file per report in a directory.
// Safe for concurrent use.
type FileStore struct {
	directory string
	mu        sync.RWMutex
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(directory string) (*FileStore, error) {
	if directory == "" {
		return nil, errors.New("report directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileStore{directory: directory}, nil
}

// Directory returns the store's directory.
func (s *FileStore) Directory() string {
	return s.directory
}

// Save writes r, replacing any report with the same ID.
func (s *FileStore) Save(r *Report) error {
	if r == nil {
		return errors.New("cannot save nil report")
	}
	if err := ValidateID(r.ID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(r.ID)
	tempPath := path + ".tmp"
	if err = os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	if err = os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename report file: %w", err)
	}
	return nil
}

// Get loads the report with the given ID.
func (s *FileStore) Get(id string) (*Report, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(s.path(id))
}

// List returns summaries of every stored report, newest first. Files that
// are not reports or fail to decode are skipped.
func (s *FileStore) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != reportFileExtension {
			continue
		}
		if ValidateID(strings.TrimSuffix(name, reportFileExtension)) != nil {
			continue
		}

		r, readErr := s.read(filepath.Join(s.directory, name))
		if readErr != nil {
			continue
		}
		summaries = append(summaries, r.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return newer(summaries[i].ID, summaries[j].ID)
	})
	return summaries, nil
}

// Delete removes the report with the given ID.
func (s *FileStore) Delete(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

func (s *FileStore) read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), reportFileExtension))
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var r Report
	if err = json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &r, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.directory, id+reportFileExtension)
}

// newer orders IDs by their ULID, falling back to string order.
func newer(a, b string) bool {
	ua, errA := idULID(a)
	ub, errB := idULID(b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ua.Compare(ub) > 0
}
