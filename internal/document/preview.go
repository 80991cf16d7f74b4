// Package document reads the line items of a spreadsheet locally, so the user can check
// what the server will extract before uploading it.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrUnsupportedPreview = errors.New("preview is only available for .xlsx documents")

var posPattern = regexp.MustCompile(`^\d+$`)

// Preview is what the server is expected to extract from a document.
type Preview struct {
	Filename string
	Sheet    string
	Items    []v1.Position
	// Skipped counts non empty rows that are not line items (headers, totals, notes).
	Skipped int
}

// PreviewFile previews the document at path.
func PreviewFile(path string) (*Preview, error) {
	if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
		return nil, ErrUnsupportedPreview
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	preview, err := PreviewXLSX(f)
	if err != nil {
		return nil, err
	}
	preview.Filename = filepath.Base(path)
	return preview, nil
}

// PreviewXLSX reads the active sheet. A row is a line item when it has at least four
// cells and the first one is a position number: pos, name, unit, qty.
func PreviewXLSX(r io.Reader) (*Preview, error) {
	excelFile, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening Excel file: %w", err)
	}
	defer excelFile.Close()

	sheet := excelFile.GetSheetName(excelFile.GetActiveSheetIndex())
	rows, err := excelFile.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	preview := &Preview{Sheet: sheet, Items: []v1.Position{}}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		item, ok := parseRow(row)
		if !ok {
			preview.Skipped++
			continue
		}
		preview.Items = append(preview.Items, item)
	}
	zap.S().Named("document").Debugw("previewed spreadsheet", "sheet", sheet, "items", len(preview.Items), "skipped", preview.Skipped)
	return preview, nil
}

func parseRow(row []string) (v1.Position, bool) {
	if len(row) < 4 {
		return v1.Position{}, false
	}
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = strings.TrimSpace(cell)
	}
	if !posPattern.MatchString(cells[0]) || cells[1] == "" {
		return v1.Position{}, false
	}
	pos, err := strconv.Atoi(cells[0])
	if err != nil {
		return v1.Position{}, false
	}
	return v1.Position{
		Pos:  pos,
		Name: cells[1],
		Unit: cells[2],
		Qty:  v1.ParseQuantity(cells[3]),
	}, true
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
