package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// JobSpec describes one scan-and-export job. Everything is handed to the
// worker by value at start; the initiating side must not touch the inputs
// again until the terminal event arrives.
type JobSpec struct {
	BaseDir        string
	Selection      []string
	IgnorePatterns []string
	IncludeGhosts  bool
	UseIgnoreFile  bool
	Filter         FilterSpec
	Format         string
	Destination    string
	ToClipboard    bool
}

// emitter is the worker's side of the progress/log channel.
type emitter struct {
	ch chan<- Event
}

func (e *emitter) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Info().Msg(msg)
	e.ch <- Event{Kind: EventLog, Message: msg}
}

// progress reports a percentage. Coarse, possibly duplicated values are
// fine; receivers must tolerate them.
func (e *emitter) progress(pct float64) {
	e.ch <- Event{Kind: EventProgress, Percent: pct}
}

func (e *emitter) done(outcome Outcome, format string, args ...any) {
	e.ch <- Event{Kind: EventDone, Outcome: outcome, Message: fmt.Sprintf(format, args...)}
}

// startJob launches the scan-and-export pipeline on a single background
// goroutine and returns the event channel. A relay buffers events without
// bound, so the worker never blocks on a slow consumer. The channel carries
// log, progress and exactly one terminal message, and is closed when the
// job ends. There is no cancellation: a started job runs to completion or
// failure.
func startJob(spec JobSpec) <-chan Event {
	in := make(chan Event, 64)
	out := make(chan Event)
	go relayEvents(in, out)
	go func() {
		defer close(in)
		runJob(spec, &emitter{ch: in})
	}()
	return out
}

// relayEvents forwards in to out through an in-memory queue that grows as
// needed, preserving order. out is closed once in is closed and the queue
// is drained.
func relayEvents(in <-chan Event, out chan<- Event) {
	defer close(out)
	var queue []Event
	for in != nil || len(queue) > 0 {
		var send chan<- Event
		var next Event
		if len(queue) > 0 {
			send = out
			next = queue[0]
		}
		select {
		case ev, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			queue = append(queue, ev)
		case send <- next:
			queue = queue[1:]
		}
	}
}

func runJob(spec JobSpec, em *emitter) {
	info, err := os.Stat(spec.BaseDir)
	if err != nil || !info.IsDir() {
		em.done(OutcomeError, "%v: %s", ErrNotADirectory, spec.BaseDir)
		return
	}

	result, err := scanTree(scanOptions{
		Base:           spec.BaseDir,
		Selection:      spec.Selection,
		IgnorePatterns: spec.IgnorePatterns,
		IncludeGhosts:  spec.IncludeGhosts,
		UseIgnoreFile:  spec.UseIgnoreFile,
	}, em)
	if err != nil {
		em.done(OutcomeError, "scan failed: %v", err)
		return
	}

	empty := len(result.Entries) == 0
	if empty {
		em.logf("selection and filters yield no content entries")
	}

	if err := writeOutput(spec, result, em); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			em.done(OutcomeError, "%v", err)
		} else {
			em.done(OutcomeError, "export failed: %v", err)
		}
		return
	}

	em.progress(100)
	if empty {
		em.done(OutcomeWarning, "finished, but the report has no file contents")
		return
	}
	em.done(OutcomeSuccess, "report written to %s", spec.Destination)
}

// writeOutput picks the destination sink and runs the exporter. Clipboard
// delivery buffers the report in memory; everything else streams to the
// destination file.
func writeOutput(spec JobSpec, result *ScanResult, em *emitter) error {
	if spec.ToClipboard {
		if spec.Format != FormatText {
			return fmt.Errorf("%w: clipboard delivery supports %s only", ErrUnsupportedFormat, FormatText)
		}
		var buf bytes.Buffer
		if err := exportResult(&buf, result, spec.Filter, spec.Format, em); err != nil {
			return err
		}
		if err := clipboard.WriteAll(buf.String()); err != nil {
			return fmt.Errorf("copying report to clipboard: %w", err)
		}
		em.logf("report copied to clipboard")
		return nil
	}

	// Validate the format before touching the destination so an unsupported
	// request leaves no partial file behind.
	switch spec.Format {
	case FormatText, FormatCSV, FormatPDF:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, spec.Format)
	}

	f, err := os.Create(spec.Destination)
	if err != nil {
		return fmt.Errorf("creating %s: %w", spec.Destination, err)
	}
	if err := exportResult(f, result, spec.Filter, spec.Format, em); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
