package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WeatherStation is one entry of the weather-station metadata file.
// Fields not needed for tagging are ignored on decode.
type WeatherStation struct {
	ID          string             `json:"id"`
	Country     string             `json:"country"`
	Region      string             `json:"region"`
	Timezone    string             `json:"timezone"`
	Name        StationName        `json:"name"`
	Identifiers StationIdentifiers `json:"identifiers"`
	Location    StationLocation    `json:"location"`
}

type StationName struct {
	EN string `json:"en"`
}

type StationIdentifiers struct {
	WMO string `json:"wmo"`
}

type StationLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StationInfo is the subset of station metadata attached to every record.
type StationInfo struct {
	Name  string  `json:"name"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	TZ    string  `json:"tz"`
}

// Info projects a station onto the fields records are tagged with.
func (s WeatherStation) Info() StationInfo {
	return StationInfo{
		Name:  s.Name.EN,
		State: s.Region,
		Lat:   s.Location.Latitude,
		Lon:   s.Location.Longitude,
		TZ:    s.Timezone,
	}
}

// StationIndex looks stations up by id or WMO identifier.
type StationIndex struct {
	stations []WeatherStation
	byID     map[string]int
	byWMO    map[string]int
}

// NewStationIndex indexes stations. When several stations share a key the
// one earliest in the slice wins, whether it matched on id or on WMO.
func NewStationIndex(stations []WeatherStation) *StationIndex {
	idx := &StationIndex{
		stations: stations,
		byID:     make(map[string]int, len(stations)),
		byWMO:    make(map[string]int, len(stations)),
	}
	for i, s := range stations {
		if s.ID != "" {
			if _, ok := idx.byID[s.ID]; !ok {
				idx.byID[s.ID] = i
			}
		}
		if s.Identifiers.WMO != "" {
			if _, ok := idx.byWMO[s.Identifiers.WMO]; !ok {
				idx.byWMO[s.Identifiers.WMO] = i
			}
		}
	}
	return idx
}

// Len returns the number of indexed stations.
func (x *StationIndex) Len() int { return len(x.stations) }

// Lookup returns the station whose id or WMO identifier equals code.
func (x *StationIndex) Lookup(code string) (StationInfo, bool) {
	if code == "" {
		return StationInfo{}, false
	}
	i, okID := x.byID[code]
	j, okWMO := x.byWMO[code]
	switch {
	case okID && okWMO:
		return x.stations[min(i, j)].Info(), true
	case okID:
		return x.stations[i].Info(), true
	case okWMO:
		return x.stations[j].Info(), true
	default:
		return StationInfo{}, false
	}
}

// FilterByCountry keeps the stations whose country code equals country.
func FilterByCountry(stations []WeatherStation, country string) []WeatherStation {
	out := make([]WeatherStation, 0, len(stations))
	for _, s := range stations {
		if s.Country == country {
			out = append(out, s)
		}
	}
	return out
}

// StationCodeFromDir extracts the WMO station identifier from a corpus
// location directory such as "USA_AK_Anchorage.Intl.AP.702730". The TMY3
// code carries one more trailing digit than the WMO identifier, which is
// dropped: "702730" -> "70273".
func StationCodeFromDir(dir string) (string, error) {
	base := filepath.Base(dir)
	fields := strings.SplitN(base, "_", 3)
	if len(fields) != 3 || fields[0] != "USA" {
		return "", fmt.Errorf("%w: %q: expected USA_<state>_<place>", ErrInvalidLocationDir, base)
	}
	if len(fields[1]) != 2 {
		return "", fmt.Errorf("%w: %q: state code %q is not two letters", ErrInvalidLocationDir, base, fields[1])
	}

	parts := strings.Split(fields[2], ".")
	code := parts[len(parts)-1]
	if len(code) < 2 {
		return "", fmt.Errorf("%w: %q: missing station code", ErrInvalidLocationDir, base)
	}
	return code[:len(code)-1], nil
}
