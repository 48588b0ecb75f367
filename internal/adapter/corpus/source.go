// Package corpus reads the commercial reference-building corpus from disk:
// one directory per location, one hourly load CSV per building.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/gocarina/gocsv"
)

// sourceRow maps the columns kept from a building file. Every other column
// in the file is ignored.
type sourceRow struct {
	DateTime          string  `csv:"Date/Time"`
	Main              float64 `csv:"Electricity:Facility [kW](Hourly)"`
	Fans              float64 `csv:"Fans:Electricity [kW](Hourly)"`
	Cooling           float64 `csv:"Cooling:Electricity [kW](Hourly)"`
	Heating           float64 `csv:"Heating:Electricity [kW](Hourly)"`
	InteriorLights    float64 `csv:"InteriorLights:Electricity [kW](Hourly)"`
	InteriorEquipment float64 `csv:"InteriorEquipment:Electricity [kW](Hourly)"`
}

// Source lists and reads building files below a corpus root.
// It implements pipeline.Source.
type Source struct {
	root string
}

// NewSource creates a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{root: dir}
}

// Root returns the corpus directory.
func (s *Source) Root() string { return s.root }

// LocationDirs returns the location directories directly below the root,
// sorted by path.
func (s *Source) LocationDirs(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "*"))
	if err != nil {
		return nil, fmt.Errorf("list location dirs: %w", err)
	}

	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", m, err)
		}
		if info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// BuildingFiles returns the CSV files in a location directory, sorted by path.
func (s *Source) BuildingFiles(_ context.Context, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list building files in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadBuilding decodes the hourly readings of one building file in file order.
func (s *Source) ReadBuilding(ctx context.Context, path string) ([]domain.RawReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open building file: %w", err)
	}
	defer f.Close()

	var rows []*sourceRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("decode building file %s: %w", filepath.Base(path), err)
	}

	readings := make([]domain.RawReading, len(rows))
	for i, r := range rows {
		readings[i] = domain.RawReading{
			DateTime: r.DateTime,
			Loads: domain.Loads{
				Main:              r.Main,
				Fans:              r.Fans,
				Cooling:           r.Cooling,
				Heating:           r.Heating,
				InteriorLights:    r.InteriorLights,
				InteriorEquipment: r.InteriorEquipment,
			},
		}
	}
	return readings, nil
}
