package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
)

// LoadStations reads a JSON array of weather stations.
func LoadStations(path string) ([]domain.WeatherStation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weather stations: %w", err)
	}

	var stations []domain.WeatherStation
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("unmarshal weather stations: %w", err)
	}
	return stations, nil
}

// LoadStationIndex reads a station file and indexes the stations of one
// country. An empty country keeps every station.
func LoadStationIndex(path, country string) (*domain.StationIndex, error) {
	stations, err := LoadStations(path)
	if err != nil {
		return nil, err
	}
	if country != "" {
		stations = domain.FilterByCountry(stations, country)
	}
	return domain.NewStationIndex(stations), nil
}

// FilterStations copies the stations of one country from inPath to outPath.
// Station objects are copied verbatim, including fields the ETL never reads.
func FilterStations(inPath, outPath, country string) (kept, total int, err error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return 0, 0, fmt.Errorf("read weather stations: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return 0, 0, fmt.Errorf("unmarshal weather stations: %w", err)
	}

	out := make([]json.RawMessage, 0, len(raws))
	for i, raw := range raws {
		var s domain.WeatherStation
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, 0, fmt.Errorf("unmarshal weather station %d: %w", i, err)
		}
		if s.Country == country {
			out = append(out, raw)
		}
	}

	encoded, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return 0, 0, fmt.Errorf("marshal weather stations: %w", err)
	}
	if err := os.WriteFile(outPath, append(encoded, '\n'), 0o644); err != nil { //nolint:gosec // output is a public dataset
		return 0, 0, fmt.Errorf("write weather stations: %w", err)
	}
	return len(out), len(raws), nil
}
