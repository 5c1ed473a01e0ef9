package model

import "time"

// ReportExport is the top-level JSON structure for archived report export.
type ReportExport struct {
	Project     string    `json:"project"`
	GeneratedAt time.Time `json:"generated_at"`
	NumReports  int       `json:"num_reports"`
	Reports     []Report  `json:"reports"`
}
