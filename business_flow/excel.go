package businessflow

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetWriter appends rows below a header on a single sheet
type sheetWriter struct {
	xl    *excelize.File
	sheet string
	next  int
}

func newSheetWriter(sheetName string, header []string) (*sheetWriter, error) {
	xl := excelize.NewFile()
	name := sanitizeSheetName(sheetName)
	if err := xl.SetSheetName(xl.GetSheetName(0), name); err != nil {
		_ = xl.Close()
		return nil, err
	}
	w := &sheetWriter{xl: xl, sheet: name, next: 1}
	if err := w.writeRow(header); err != nil {
		_ = xl.Close()
		return nil, err
	}
	return w, nil
}

func (w *sheetWriter) writeRow(values []string) error {
	cellRef, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		return err
	}
	if err := w.xl.SetSheetRow(w.sheet, cellRef, &values); err != nil {
		return err
	}
	w.next++
	return nil
}

// bytes renders the workbook and releases it
func (w *sheetWriter) bytes() ([]byte, error) {
	defer func() { _ = w.xl.Close() }()
	buf, err := w.xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readFirstSheet returns the rows of the first sheet with cells trimmed
func readFirstSheet(r io.Reader) ([][]string, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = xl.Close() }()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = strings.TrimSpace(rows[i][j])
		}
	}
	return rows, nil
}

func readFirstSheetBytes(content []byte) ([][]string, error) {
	return readFirstSheet(bytes.NewReader(content))
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

// truncateSheetName keeps at most 31 characters, counted in runes
func truncateSheetName(name string) string {
	if name == "" {
		return "Sheet"
	}
	if runes := []rune(name); len(runes) > 31 {
		return string(runes[:31])
	}
	return name
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
