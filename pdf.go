package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// exportPDF writes the paginated document: a title page with the base path
// and the full index tree, then one page per content entry passing the
// filter. The core fonts are single-byte cp1252, so every string goes
// through the translator, which re-encodes Latin-1 text and substitutes
// anything unrepresentable rather than corrupting the file.
func exportPDF(w io.Writer, result *ScanResult, filter FilterSpec, em *emitter) error {
	em.logf("writing PDF report")

	pdf := gofpdf.New("P", "mm", "A4", "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: pdf renderer unavailable: %v", ErrUnsupportedFormat, err)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	// Title page: base path and index tree.
	pdf.AddPage()
	pdf.SetFont("Courier", "B", pdfFontSize+3)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight+3,
		tr("Project report\n"+result.Base), "", "L", false)
	pdf.Ln(pdfLineHeight)
	pdf.SetFont("Courier", "", pdfFontSize)
	for _, line := range result.Index.Lines() {
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, tr(line), "", "L", false)
	}

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	pages := 0
	for i, entry := range result.Entries {
		exportProgress(em, i, len(result.Entries))
		if !filter.Matches(entry.RelPath) {
			continue
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", pdfFontSize+2)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight+2, tr(entry.RelPath), "", "L", false)
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		content := strings.Join(entry.Lines, "\n")
		if err := writeHighlighted(pdf, tr, style, entry.RelPath, content); err != nil {
			// Highlighting is best effort; plain Courier is always valid.
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, tr(content), "", "L", false)
		}
		pages++
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	em.logf("%d content pages written", pages)
	return nil
}

// writeHighlighted renders code with chroma token colors. Falls back to the
// plain-text lexer when nothing matches the file name or content.
func writeHighlighted(pdf *gofpdf.Fpdf, tr func(string) string, style *chroma.Style, relPath, content string) error {
	lexer := lexers.Match(filepath.Base(relPath))
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", relPath, err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		if entry.Colour.IsSet() {
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}

		value := strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth))
		pdf.Write(pdfLineHeight, tr(value))
	}
	pdf.Ln(-1)
	return pdf.Error()
}
