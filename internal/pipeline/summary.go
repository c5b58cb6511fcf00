package pipeline

import (
	"time"
)

// FamilySummary is the outcome of decoding one record family.
type FamilySummary struct {
	Family       string         `json:"family"`
	Lines        int            `json:"lines"`
	Rows         int            `json:"rows"`
	Loaded       int            `json:"loaded"`
	LineErrors   int            `json:"line_errors"`
	ErrorsByKind map[string]int `json:"errors_by_kind,omitempty"`
	Duration     time.Duration  `json:"duration_ns"`
	Error        string         `json:"error,omitempty"`
}

func newSummary(family string) *FamilySummary {
	return &FamilySummary{Family: family, ErrorsByKind: make(map[string]int)}
}

// Failed reports whether the family was aborted.
func (s FamilySummary) Failed() bool { return s.Error != "" }
