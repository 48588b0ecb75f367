package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"
)

// TimestampLayout is how normalized instants are written to tabular output.
const TimestampLayout = "2006-01-02 15:04:05-07:00"

// Loads holds the hourly electricity end uses kept from a building file, in kW.
type Loads struct {
	Main              float64 `json:"main"`
	Fans              float64 `json:"fans"`
	Cooling           float64 `json:"cooling"`
	Heating           float64 `json:"heating"`
	InteriorLights    float64 `json:"interior_lights"`
	InteriorEquipment float64 `json:"interior_equipment"`
}

// RawReading is one row of a building file after column selection.
type RawReading struct {
	DateTime string
	Loads    Loads
}

// EnergyRecord is a normalized, tagged row of the consolidated dataset.
type EnergyRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"datetime"`
	Loads

	Name         string  `json:"name"`
	State        string  `json:"state"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	TZ           string  `json:"tz"`
	BuildingType string  `json:"building_type"`
	ClimateZone  string  `json:"climate_zone"`

	// Shifted marks readings moved forward an hour around a DST transition.
	Shifted    bool      `json:"shifted,omitempty"`
	IngestedAt time.Time `json:"ingested_at"`
}

// RecordColumns is the column order of tabular output.
var RecordColumns = []string{
	"datetime", "main", "fans", "cooling", "heating", "interior_lights", "interior_equipment",
	"name", "state", "lat", "lon", "tz", "building_type", "climate_zone",
}

// NewEnergyRecord tags a normalized reading with its building's metadata.
func NewEnergyRecord(b Building, n Normalized, loads Loads) EnergyRecord {
	return EnergyRecord{
		ID:           generateID(b.Type, b.Path, n.Source, n.Instant),
		Timestamp:    n.Instant,
		Loads:        loads,
		Name:         b.Station.Name,
		State:        b.Station.State,
		Lat:          b.Station.Lat,
		Lon:          b.Station.Lon,
		TZ:           b.Station.TZ,
		BuildingType: b.Type,
		ClimateZone:  b.ClimateZone,
		Shifted:      n.Shifted,
		IngestedAt:   clock.Now().UTC(),
	}
}

// Values returns the record's fields in RecordColumns order.
func (r EnergyRecord) Values() []any {
	return []any{
		r.Timestamp.Format(TimestampLayout),
		r.Main, r.Fans, r.Cooling, r.Heating, r.InteriorLights, r.InteriorEquipment,
		r.Name, r.State, r.Lat, r.Lon, r.TZ, r.BuildingType, r.ClimateZone,
	}
}

// generateID produces a deterministic ID from the building file, the source
// reading and its instant, so re-running the job yields the same keys
// downstream.
func generateID(buildingType, path string, raw RawTimestamp, ts time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", filepath.Base(path), raw, ts.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if buildingType == "" {
		return short
	}
	return buildingType + "-" + short
}
