package internal

import "time"

// FindingKind tells what fired: the extension allow-list or a content pattern.
type FindingKind string

const (
	KindExtensionFlag FindingKind = "extension_flag"
	KindContentMatch  FindingKind = "content_match"
)

// Finding is one detected issue. Immutable once created.
// Line/LineText are set for content matches only; InnerPath only for
// archive members.
type Finding struct {
	Kind       FindingKind `json:"kind"`
	Path       string      `json:"path"`
	Name       string      `json:"name"`
	Dir        string      `json:"dir"`
	InnerPath  string      `json:"inner_path,omitempty"`
	Match      string      `json:"match"`
	Line       int         `json:"line,omitempty"`
	LineText   string      `json:"line_text,omitempty"`
	DetectedAt time.Time   `json:"detected_at"`
}

// ScanResult holds findings in detection order plus run counters.
type ScanResult struct {
	Findings       []Finding `json:"findings"`
	FilesInspected int64     `json:"files_inspected"`
	ExtensionFlags int64     `json:"extension_flags"`
	ContentMatches int64     `json:"content_matches"`
	FileErrors     int64     `json:"file_errors"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Duration of the completed run.
func (r *ScanResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
