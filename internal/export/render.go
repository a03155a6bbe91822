package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DefaultPrefix starts every export file name
const DefaultPrefix = "TedRed"

// PlaceholderName stands in for a name with no file-safe characters
const PlaceholderName = "Applicant"

// RowsPerPage approximates how many rows fit on an A4 portrait page
const RowsPerPage = 45

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "xlsx" (the default when empty) and "csv"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX, "":
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename builds "{prefix}_Application_{first}_{last}.{ext}". Characters
// that are unsafe in file names are dropped and inner spaces become underscores.
// A name with nothing left is replaced by PlaceholderName.
func Filename(prefix, firstName, lastName string, format Format) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_Application_%s_%s.%s", prefix, fileSafe(firstName), fileSafe(lastName), format)
}

func fileSafe(s string) string {
	parts := make([]string, 0, 2)
	for _, f := range strings.Fields(s) {
		var b strings.Builder
		for _, r := range f {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	if len(parts) == 0 {
		return PlaceholderName
	}
	return strings.Join(parts, "_")
}

// Render produces the file bytes of doc in format
func Render(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return RenderXLSX(doc)
	case FormatCSV:
		return RenderCSV(doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ============================================================================
// XLSX
// ============================================================================

const (
	sheetName = "Application"
	lastCol   = "D"
	columns   = 4
)

type xlsxStyles struct {
	banner, subtitle, section, header, cell, text, footer int
}

func newStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.banner, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.subtitle, &excelize.Style{
			Font:      &excelize.Font{Italic: true, Size: 12, Color: "#1E3A5F"},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&s.section, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 12, Color: "#1E3A5F"},
			Border: []excelize.Border{
				{Type: "bottom", Color: "#1E3A5F", Style: 2},
			},
		}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&s.cell, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border: []excelize.Border{
				{Type: "bottom", Color: "#D9D9D9", Style: 1},
			},
		}},
		{&s.text, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		}},
		{&s.footer, &excelize.Style{
			Font:      &excelize.Font{Italic: true, Size: 9, Color: "#666666"},
			Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("failed to create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// xlsxWriter tracks the next free row while the document is laid out
type xlsxWriter struct {
	f      *excelize.File
	styles xlsxStyles
	row    int
}

func (w *xlsxWriter) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, w.row)
	return name
}

// line writes a value merged across all columns
func (w *xlsxWriter) line(value string, style int) error {
	start := w.cell(1)
	end := fmt.Sprintf("%s%d", lastCol, w.row)
	if err := w.f.SetCellValue(sheetName, start, value); err != nil {
		return err
	}
	if err := w.f.MergeCell(sheetName, start, end); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheetName, start, end, style); err != nil {
		return err
	}
	w.row++
	return nil
}

// tableRow writes values into consecutive columns. With fewer values than
// columns the last value spans the remainder.
func (w *xlsxWriter) tableRow(values []string, style int) error {
	for i, v := range values {
		if err := w.f.SetCellValue(sheetName, w.cell(i+1), v); err != nil {
			return err
		}
	}
	if n := len(values); n > 0 && n < columns {
		if err := w.f.MergeCell(sheetName, w.cell(n), fmt.Sprintf("%s%d", lastCol, w.row)); err != nil {
			return err
		}
	}
	if err := w.f.SetCellStyle(sheetName, w.cell(1), fmt.Sprintf("%s%d", lastCol, w.row), style); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *xlsxWriter) section(s Section) error {
	if err := w.line(s.Title, w.styles.section); err != nil {
		return err
	}
	if s.Table != nil {
		if err := w.tableRow(s.Table.Headers, w.styles.header); err != nil {
			return err
		}
		for _, r := range s.Table.Rows {
			if err := w.tableRow(r, w.styles.cell); err != nil {
				return err
			}
		}
	}
	for _, l := range s.Lines {
		if err := w.line(l, w.styles.text); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func setupPage(f *excelize.File, doc Document) error {
	size := 9 // A4
	orientation := "portrait"
	fitWidth := 1
	if err := f.SetPageLayout(sheetName, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &fitWidth,
	}); err != nil {
		return fmt.Errorf("failed to set page layout: %w", err)
	}

	margin, edge := 0.6, 0.3
	if err := f.SetPageMargins(sheetName, &excelize.PageLayoutMarginsOptions{
		Top: &margin, Bottom: &margin, Left: &margin, Right: &margin,
		Header: &edge, Footer: &edge,
	}); err != nil {
		return fmt.Errorf("failed to set page margins: %w", err)
	}

	if err := f.SetHeaderFooter(sheetName, &excelize.HeaderFooterOptions{
		OddHeader: "&R" + doc.Reference,
		OddFooter: "&CPage &P of &N",
	}); err != nil {
		return fmt.Errorf("failed to set header and footer: %w", err)
	}

	for col, width := range map[string]float64{"A": 24, "B": 30, "C": 20, "D": 40} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// RenderXLSX lays the document out on one A4 sheet with a page break
// before every page produced by Paginate
func RenderXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   doc.Title,
		Subject: doc.Subtitle,
		Creator: DefaultPrefix,
	}); err != nil {
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}
	if err := setupPage(f, doc); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	w := &xlsxWriter{f: f, styles: styles, row: 1}

	if err := w.line(doc.Title, styles.banner); err != nil {
		return nil, fmt.Errorf("failed to write banner: %w", err)
	}
	_ = f.SetRowHeight(sheetName, 1, 30)
	if err := w.line(doc.Subtitle, styles.subtitle); err != nil {
		return nil, err
	}
	reference := ""
	if doc.Reference != "" {
		reference = "Reference Number: " + doc.Reference
	}
	if err := w.line(reference, styles.subtitle); err != nil {
		return nil, err
	}
	w.row = HeaderRows + 1

	for i, page := range Paginate(doc, RowsPerPage) {
		if i > 0 {
			if err := f.InsertPageBreak(sheetName, w.cell(1)); err != nil {
				return nil, fmt.Errorf("failed to insert page break: %w", err)
			}
		}
		for _, s := range page {
			if err := w.section(s); err != nil {
				return nil, fmt.Errorf("failed to write section %s: %w", s.ID, err)
			}
		}
	}

	if err := w.line(doc.Footer, styles.footer); err != nil {
		return nil, fmt.Errorf("failed to write footer: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// ============================================================================
// CSV
// ============================================================================

// RenderCSV writes one block per section: title, header row, data rows,
// free-text lines and a blank separator
func RenderCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{doc.Title}, {doc.Subtitle}}
	if doc.Reference != "" {
		records = append(records, []string{"Reference Number", doc.Reference})
	}
	records = append(records, []string{})

	for _, s := range doc.Sections {
		records = append(records, []string{s.Title})
		if s.Table != nil {
			records = append(records, s.Table.Headers)
			records = append(records, s.Table.Rows...)
		}
		for _, l := range s.Lines {
			records = append(records, []string{l})
		}
		records = append(records, []string{})
	}
	records = append(records, []string{doc.Footer})

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}
