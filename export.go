package main

import (
	"fmt"
	"io"
)

// exportResult streams a ScanResult into the requested encoding. The
// extension filter is applied here, per entry, so one scan can feed several
// exports with different filters. Progress covers 20-100%.
func exportResult(w io.Writer, result *ScanResult, filter FilterSpec, format string, em *emitter) error {
	switch format {
	case FormatText:
		return exportText(w, result, filter, em)
	case FormatCSV:
		return exportCSV(w, result, filter, em)
	case FormatPDF:
		return exportPDF(w, result, filter, em)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// exportProgress maps an entry position to the 20-100 band, reporting at
// coarse intervals. Duplicate percentages are fine.
func exportProgress(em *emitter, i, total int) {
	if total == 0 || i%50 != 0 {
		return
	}
	em.progress(20 + float64(i)/float64(total)*80)
}
