package domain

import (
	"context"
	"time"
)

// Document is text extracted from an input file.
type Document struct {
	Path  string
	Title string
	Text  string
}

// DocumentReader turns input paths into analyzable text.
type DocumentReader interface {
	// Collect expands paths and glob patterns into a sorted list of files.
	Collect(patterns []string) ([]string, error)
	// Read extracts the text of one file.
	Read(ctx context.Context, path string) (*Document, error)
}

// DashboardExport is the document written by the dashboard export action.
type DashboardExport struct {
	Title     string          `json:"title" yaml:"title"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
	Data      *AnalysisResult `json:"data" yaml:"data"`
}

// TextStats are the live counters shown under the input box.
type TextStats struct {
	Characters int `json:"characters" yaml:"characters"`
	Words      int `json:"words" yaml:"words"`
}
