package corpus

import (
	"fmt"
	"os"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/gocarina/gocsv"
)

// WriteBuilding writes readings in the corpus building-file layout.
func WriteBuilding(path string, readings []domain.RawReading) error {
	rows := make([]*sourceRow, len(readings))
	for i, r := range readings {
		rows[i] = &sourceRow{
			DateTime:          r.DateTime,
			Main:              r.Loads.Main,
			Fans:              r.Loads.Fans,
			Cooling:           r.Loads.Cooling,
			Heating:           r.Loads.Heating,
			InteriorLights:    r.Loads.InteriorLights,
			InteriorEquipment: r.Loads.InteriorEquipment,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create building file: %w", err)
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write building file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close building file: %w", err)
	}
	return nil
}

// FormatSourceTimestamp renders a timestamp in the corpus Date/Time layout,
// e.g. " 01/01  24:00:00".
func FormatSourceTimestamp(raw domain.RawTimestamp) string {
	return fmt.Sprintf(" %02d/%02d  %02d:00:00", raw.Month, raw.Day, raw.Hour)
}
