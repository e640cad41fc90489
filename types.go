package main

import "errors"

// TriState is the selection state of a node in the selection tree.
// Files only ever hold Checked or Unchecked; Partial is reserved for
// directories with mixed descendants.
type TriState int

const (
	Unchecked TriState = iota
	Checked
	Partial
)

func (s TriState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Partial:
		return "partial"
	default:
		return "unchecked"
	}
}

// ContentEntry is one scanned file whose content is part of the report body.
// RelPath is slash-separated and relative to the scan base. Lines carry no
// trailing newline.
type ContentEntry struct {
	RelPath string
	Lines   []string
}

// ScanResult is the output of one scan: the structural index plus the
// ordered content list. It is handed to exactly one export call and never
// mutated afterwards.
type ScanResult struct {
	Base    string
	Index   *IndexTree
	Entries []ContentEntry
}

// Output formats accepted by the exporter.
const (
	FormatText = "txt"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Sentinel errors for job-level failures. Per-file problems are logged and
// absorbed; only these reach the terminal outcome.
var (
	ErrNotADirectory     = errors.New("base path is not a directory")
	ErrNotFound          = errors.New("path not present in selection tree")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// EventKind discriminates the three message shapes on the job channel.
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
	EventDone
)

// Outcome classifies the single terminal event of a job.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeWarning
	OutcomeError
)

// Event is one message from the background worker to the interactive side.
// Message is set for EventLog and EventDone, Percent for EventProgress and
// Outcome for EventDone. Exactly one EventDone is sent per job.
type Event struct {
	Kind    EventKind
	Message string
	Percent float64
	Outcome Outcome
}
