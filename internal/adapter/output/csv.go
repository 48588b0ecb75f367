// Package output writes the consolidated energy dataset to files.
package output

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/gocarina/gocsv"
)

// csvRow is the on-disk shape of an EnergyRecord. Field order is column order.
type csvRow struct {
	DateTime          string  `csv:"datetime"`
	Main              float64 `csv:"main"`
	Fans              float64 `csv:"fans"`
	Cooling           float64 `csv:"cooling"`
	Heating           float64 `csv:"heating"`
	InteriorLights    float64 `csv:"interior_lights"`
	InteriorEquipment float64 `csv:"interior_equipment"`
	Name              string  `csv:"name"`
	State             string  `csv:"state"`
	Lat               float64 `csv:"lat"`
	Lon               float64 `csv:"lon"`
	TZ                string  `csv:"tz"`
	BuildingType      string  `csv:"building_type"`
	ClimateZone       string  `csv:"climate_zone"`
}

func toCSVRow(r domain.EnergyRecord) *csvRow {
	return &csvRow{
		DateTime:          r.Timestamp.Format(domain.TimestampLayout),
		Main:              r.Main,
		Fans:              r.Fans,
		Cooling:           r.Cooling,
		Heating:           r.Heating,
		InteriorLights:    r.InteriorLights,
		InteriorEquipment: r.InteriorEquipment,
		Name:              r.Name,
		State:             r.State,
		Lat:               r.Lat,
		Lon:               r.Lon,
		TZ:                r.TZ,
		BuildingType:      r.BuildingType,
		ClimateZone:       r.ClimateZone,
	}
}

// CSVWriter appends records to a CSV file with a single header row.
// It implements pipeline.BatchLoader.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	csv    *gocsv.SafeCSVWriter
	header bool
	rows   int
}

// NewCSVWriter creates (or truncates) the file at path.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv output: %w", err)
	}
	return &CSVWriter{file: f, csv: gocsv.DefaultCSVWriter(f)}, nil
}

// LoadBatch writes records in order, emitting the header before the first batch.
func (w *CSVWriter) LoadBatch(_ context.Context, records []domain.EnergyRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]*csvRow, len(records))
	for i := range records {
		rows[i] = toCSVRow(records[i])
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.write(rows); err != nil {
		return err
	}
	w.rows += len(rows)
	return nil
}

func (w *CSVWriter) write(rows []*csvRow) error {
	var err error
	if w.header {
		err = gocsv.MarshalCSVWithoutHeaders(rows, w.csv)
	} else {
		err = gocsv.MarshalCSV(rows, w.csv)
	}
	if err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	w.header = true
	return nil
}

// Rows returns the number of data rows written.
func (w *CSVWriter) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close writes the header if nothing else was written, then closes the file.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.header {
		if err := w.write([]*csvRow{}); err != nil {
			w.file.Close()
			return err
		}
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close csv output: %w", err)
	}
	return nil
}

func (r *csvRow) record() (domain.EnergyRecord, error) {
	ts, err := time.Parse(domain.TimestampLayout, r.DateTime)
	if err != nil {
		return domain.EnergyRecord{}, fmt.Errorf("parse datetime %q: %w", r.DateTime, err)
	}
	return domain.EnergyRecord{
		Timestamp: ts,
		Loads: domain.Loads{
			Main:              r.Main,
			Fans:              r.Fans,
			Cooling:           r.Cooling,
			Heating:           r.Heating,
			InteriorLights:    r.InteriorLights,
			InteriorEquipment: r.InteriorEquipment,
		},
		Name:         r.Name,
		State:        r.State,
		Lat:          r.Lat,
		Lon:          r.Lon,
		TZ:           r.TZ,
		BuildingType: r.BuildingType,
		ClimateZone:  r.ClimateZone,
	}, nil
}

// ReadCSV loads a dataset written by CSVWriter. Timestamps keep the fixed
// UTC offset they were written with.
func ReadCSV(path string) ([]domain.EnergyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv dataset: %w", err)
	}
	defer f.Close()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("decode csv dataset: %w", err)
	}

	records := make([]domain.EnergyRecord, len(rows))
	for i, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records[i] = rec
	}
	return records, nil
}
