package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rsharan/interviewer/internal/model"
)

// FileSink writes each report as an indented JSON file named after the
// report key, one file per completed session.
type FileSink struct {
	dir string
}

// NewFileSink creates the reports directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

// Save writes the report record. Rewriting an existing key produces the
// same content, so retries are harmless.
func (s *FileSink) Save(r model.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(s.dir, r.Key()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
