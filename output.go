package main

import (
	"bufio"
	"io"
)

// exportText writes the plain-text report: the index section first, then one
// block per content entry in scan order. Entries rejected by the extension
// filter keep their heading, annotated as not converted, so the reader can
// still see they exist.
func exportText(w io.Writer, result *ScanResult, filter FilterSpec, em *emitter) error {
	em.logf("writing text report")
	bw := bufio.NewWriter(w)

	writeString := func(s string) {
		_, _ = bw.WriteString(s)
	}

	writeString("# PROJECT STRUCTURE\n\n")
	for _, line := range result.Index.Lines() {
		writeString(line)
		writeString("\n")
	}
	writeString("\n# FILE CONTENTS\n\n")

	converted := 0
	for i, entry := range result.Entries {
		exportProgress(em, i, len(result.Entries))
		if !filter.Matches(entry.RelPath) {
			writeString("## " + entry.RelPath + " (not converted)\n\n")
			continue
		}
		writeString("## " + entry.RelPath + "\n")
		for _, line := range entry.Lines {
			writeString(line)
			writeString("\n")
		}
		writeString("\n")
		converted++
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	em.logf("%d content blocks written", converted)
	return nil
}
