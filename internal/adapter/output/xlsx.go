package output

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	dataSheet    = "commercial"
	summarySheet = "summary"
)

// ErrTooManyRows is returned when the dataset no longer fits in one worksheet.
var ErrTooManyRows = errors.New("xlsx output exceeds worksheet row limit")

// XLSXWriter streams records into a workbook with a data sheet and a
// per-building-type summary sheet written on Close.
// It implements pipeline.BatchLoader.
type XLSXWriter struct {
	mu      sync.Mutex
	path    string
	file    *excelize.File
	stream  *excelize.StreamWriter
	row     int
	byType  map[string]int
	maxRows int
}

// NewXLSXWriter prepares a workbook that is saved to path on Close.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create xlsx output: %w", err)
	}
	sw, err := f.NewStreamWriter(dataSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create xlsx stream: %w", err)
	}

	header := make([]any, len(domain.RecordColumns))
	for i, c := range domain.RecordColumns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	return &XLSXWriter{
		path:    path,
		file:    f,
		stream:  sw,
		row:     1,
		byType:  make(map[string]int),
		maxRows: excelize.TotalRows,
	}, nil
}

// LoadBatch appends records as worksheet rows.
func (w *XLSXWriter) LoadBatch(_ context.Context, records []domain.EnergyRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.row+len(records) > w.maxRows {
		return fmt.Errorf("%w: %d rows", ErrTooManyRows, w.row+len(records))
	}

	for i := range records {
		w.row++
		cell, err := excelize.CoordinatesToCellName(1, w.row)
		if err != nil {
			return fmt.Errorf("xlsx cell name: %w", err)
		}
		if err := w.stream.SetRow(cell, records[i].Values()); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", w.row, err)
		}
		w.byType[records[i].BuildingType]++
	}
	return nil
}

// Close flushes the data sheet, writes the summary, and saves the workbook.
func (w *XLSXWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer w.file.Close()

	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("flush xlsx stream: %w", err)
	}
	if err := w.writeSummary(); err != nil {
		return err
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save xlsx output: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeSummary() error {
	if _, err := w.file.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	types := make([]string, 0, len(w.byType))
	for t := range w.byType {
		types = append(types, t)
	}
	sort.Strings(types)

	cells := [][2]any{{"building_type", "records"}}
	for _, t := range types {
		cells = append(cells, [2]any{t, w.byType[t]})
	}
	cells = append(cells, [2]any{"total", w.row - 1})

	return writePairs(w.file, summarySheet, cells)
}

// writePairs writes two-column rows starting at A1 and stops at the first
// failed cell.
func writePairs(f *excelize.File, sheet string, rows [][2]any) error {
	for i, r := range rows {
		row := i + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r[0]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, row, err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, row, err)
		}
	}
	return nil
}
