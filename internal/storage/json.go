package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"xtest/internal/config"
	"xtest/internal/domain"
)

// JSONStorage stores the last run in a JSON file under the configured output path
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads and writes the config's output JSON path
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Path returns the file the storage writes to
func (s *JSONStorage) Path() string {
	return s.cfg.GetOutputPath()
}

// Save writes output to the JSON file, replacing the previous run
func (s *JSONStorage) Save(output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last run from the JSON file
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}
