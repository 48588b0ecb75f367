// Command genmock writes a small synthetic commercial corpus and matching
// weather-station file for local runs and the integration suite. It uses the
// real domain package to report how many readings fall on DST transitions,
// so test assertions can be updated from its output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/commercial \
//	  -stations data/mock/weather_stations_us.json \
//	  -year 2023 -seed 1
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/energy-load-etl/internal/adapter/corpus"
	"github.com/couchcryptid/energy-load-etl/internal/domain"
)

type location struct {
	dir     string
	suffix  string // climate zone and place as they appear in building file names
	station domain.WeatherStation
}

var locations = []location{
	{
		dir:     "USA_IL_Chicago-OHare.Intl.AP.725300",
		suffix:  "5A_USA_IL_CHICAGO-OHARE",
		station: newStation("72530", "IL", "Chicago O'Hare International Airport", "America/Chicago", 41.9786, -87.9048),
	},
	{
		dir:     "USA_AZ_Phoenix-Sky.Harbor.Intl.AP.722780",
		suffix:  "2B_USA_AZ_PHOENIX",
		station: newStation("72278", "AZ", "Phoenix Sky Harbor International Airport", "America/Phoenix", 33.4342, -112.0116),
	},
	{
		dir:     "USA_NY_New.York-Central.Park.725033",
		suffix:  "4A_USA_NY_NEW_YORK",
		station: newStation("72503", "NY", "New York Central Park", "America/New_York", 40.7789, -73.9692),
	},
	{
		dir:     "USA_HI_Honolulu.Intl.AP.911820",
		suffix:  "1A_USA_HI_HONOLULU",
		station: newStation("91182", "HI", "Honolulu International Airport", "Pacific/Honolulu", 21.3187, -157.9225),
	},
}

func newStation(wmo, region, name, tz string, lat, lon float64) domain.WeatherStation {
	return domain.WeatherStation{
		ID:          wmo,
		Country:     "US",
		Region:      region,
		Timezone:    tz,
		Name:        domain.StationName{EN: name},
		Identifiers: domain.StationIdentifiers{WMO: wmo},
		Location:    domain.StationLocation{Latitude: lat, Longitude: lon},
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "directory to write the commercial corpus into")
	stationsOut := flag.String("stations", "", "output path for the weather station JSON")
	year := flag.Int("year", domain.DefaultReferenceYear, "calendar year the readings cover")
	seed := flag.Uint64("seed", 1, "seed for synthetic load noise")
	flag.Parse()

	if *out == "" || *stationsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -stations")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	stamps := yearTimestamps(*year)

	var files int
	for _, loc := range locations {
		dir := filepath.Join(*out, loc.dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for i, token := range domain.BuildingTokens() {
			name := fmt.Sprintf("RefBldg%sNew2004_v1.3_7.1_%s.csv", token, loc.suffix)
			if err := corpus.WriteBuilding(filepath.Join(dir, name), syntheticReadings(stamps, i, rng)); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
			files++
		}
	}
	log.Printf("wrote %d building files (%d readings each) under %s", files, len(stamps), *out)

	stations := make([]domain.WeatherStation, len(locations))
	for i, loc := range locations {
		stations[i] = loc.station
	}
	if err := writeJSON(*stationsOut, stations); err != nil {
		return fmt.Errorf("writing stations: %w", err)
	}
	log.Printf("wrote %d stations: %s", len(stations), *stationsOut)

	return printStats(*year, stamps)
}

// yearTimestamps lists every hour of the year in the 1-24 clock convention.
func yearTimestamps(year int) []domain.RawTimestamp {
	var stamps []domain.RawTimestamp
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		for h := 1; h <= 24; h++ {
			stamps = append(stamps, domain.RawTimestamp{Month: int(d.Month()), Day: d.Day(), Hour: h})
		}
	}
	return stamps
}

// syntheticReadings builds a daily load cycle scaled per building type with
// a little noise.
func syntheticReadings(stamps []domain.RawTimestamp, typeIndex int, rng *rand.Rand) []domain.RawReading {
	scale := 50 + 25*float64(typeIndex)
	readings := make([]domain.RawReading, len(stamps))
	for i, ts := range stamps {
		daily := 0.6 + 0.4*math.Sin(math.Pi*float64(ts.Hour-6)/12)
		seasonal := math.Cos(2 * math.Pi * float64(ts.Month-7) / 12)
		noise := 1 + 0.05*(rng.Float64()-0.5)

		lights := round(scale * 0.2 * daily * noise)
		equipment := round(scale * 0.3 * daily * noise)
		cooling := round(math.Max(0, scale*0.25*seasonal*daily))
		heating := round(math.Max(0, -scale*0.25*seasonal))
		fans := round(0.1 * (cooling + heating + scale*0.1))

		readings[i] = domain.RawReading{
			DateTime: corpus.FormatSourceTimestamp(ts),
			Loads: domain.Loads{
				Main:              round(lights + equipment + cooling + heating + fans),
				Fans:              fans,
				Cooling:           cooling,
				Heating:           heating,
				InteriorLights:    lights,
				InteriorEquipment: equipment,
			},
		}
	}
	return readings
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats normalizes one building's worth of timestamps per zone and
// reports the transitions the ETL will see.
func printStats(year int, stamps []domain.RawTimestamp) error {
	n := domain.NewNormalizer(year, nil)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Readings per building: %d\n", len(stamps))
	fmt.Printf("Buildings per location: %d\n", len(domain.BuildingTokens()))

	zones := make([]string, 0, len(locations))
	for _, loc := range locations {
		zones = append(zones, loc.station.Timezone)
	}
	sort.Strings(zones)

	for _, zone := range zones {
		var shifted []string
		distinct := make(map[int64]struct{}, len(stamps))
		for _, ts := range stamps {
			res, err := n.NormalizeDetailed(ts, zone)
			if err != nil {
				return fmt.Errorf("normalize %s in %s: %w", ts, zone, err)
			}
			distinct[res.Instant.Unix()] = struct{}{}
			if res.Shifted {
				shifted = append(shifted, ts.String())
			}
		}
		fmt.Printf("%s: shifted=%d distinct_instants=%d %v\n", zone, len(shifted), len(distinct), shifted)
	}
	return nil
}
