package store

import (
	"fmt"
	"time"

	"github.com/rsharan/interviewer/internal/model"
)

// defaultProject names the export when neither an override nor recorded
// metadata provides one.
const defaultProject = "mock-interviews"

// ExportAllReports builds an export payload from every archived report.
// An empty project falls back to the name recorded by the server at
// startup (see SetMetadata), so export runs pick up the serve-time value.
func (s *Store) ExportAllReports(project string) (model.ReportExport, error) {
	if project == "" {
		recorded, err := s.GetMetadata("project")
		if err != nil {
			return model.ReportExport{}, fmt.Errorf("read project metadata: %w", err)
		}
		project = recorded
	}
	if project == "" {
		project = defaultProject
	}

	reports, err := s.ListReports()
	if err != nil {
		return model.ReportExport{}, fmt.Errorf("list reports: %w", err)
	}
	return model.ReportExport{
		Project:     project,
		GeneratedAt: time.Now().UTC(),
		NumReports:  len(reports),
		Reports:     reports,
	}, nil
}
