// Command validate checks a consolidated commercial dataset written by the
// ETL job. It verifies field presence, that every timestamp carries the UTC
// offset its zone actually observes at that instant, per-building ordering,
// and load sanity. With -corpus it also cross-checks record counts against
// the building files they came from.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -output commercial.csv \
//	  -corpus ../energy/commercial \
//	  -year 2023
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/energy-load-etl/internal/adapter/corpus"
	"github.com/couchcryptid/energy-load-etl/internal/adapter/output"
	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/fatih/color"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// buildingKey identifies the building file a record came from.
type buildingKey struct {
	climateZone  string
	buildingType string
}

func (k buildingKey) String() string { return k.buildingType + " @ " + k.climateZone }

func main() {
	outputPath := flag.String("output", "commercial.csv", "path to the CSV dataset written by the ETL job")
	corpusDir := flag.String("corpus", "", "optional commercial corpus directory to cross-check record counts")
	year := flag.Int("year", domain.DefaultReferenceYear, "reference year the dataset was normalized to")
	flag.Parse()

	if *outputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*outputPath, *corpusDir, *year); code != 0 {
		os.Exit(code)
	}
}

func run(outputPath, corpusDir string, year int) int {
	fmt.Println("=== Energy Dataset Integrity Validation ===")
	fmt.Println()

	records, err := output.ReadCSV(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	groups := groupByBuilding(records)

	phases := []*phase{
		validateSchema(records),
		validateTimestamps(records, year),
		validateOrdering(groups),
		validateLoads(records),
	}
	if corpusDir != "" {
		counts, err := sourceCounts(context.Background(), corpusDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read corpus: %v\n", err)
			return 1
		}
		phases = append(phases, validateSourceCounts(groups, counts))
	}

	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintfFunc()

	allPassed := true
	for _, p := range phases {
		status := pass("PASS")
		if !p.passed() {
			status = fail("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d across %d buildings\n", len(records), len(groups))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

func groupByBuilding(records []domain.EnergyRecord) map[buildingKey][]domain.EnergyRecord {
	groups := make(map[buildingKey][]domain.EnergyRecord)
	for _, r := range records {
		k := buildingKey{climateZone: r.ClimateZone, buildingType: r.BuildingType}
		groups[k] = append(groups[k], r)
	}
	return groups
}

func sortedKeys(groups map[buildingKey][]domain.EnergyRecord) []buildingKey {
	keys := make([]buildingKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// ── Phase 1: required fields and known values ──

func validateSchema(records []domain.EnergyRecord) *phase {
	p := &phase{name: "Schema (fields, building types, zones)"}
	fmt.Println("Phase 1: Schema...")

	known := make(map[string]bool)
	for _, tok := range domain.BuildingTokens() {
		known[domain.BuildingType("RefBldg"+tok+"New2004_USA_XX_X.csv")] = true
	}

	for i, r := range records {
		row := i + 2
		if r.Name == "" {
			p.errorf("row %d: empty name", row)
		}
		if r.State == "" {
			p.errorf("row %d: empty state", row)
		}
		if r.ClimateZone == "" {
			p.errorf("row %d: empty climate_zone", row)
		}
		if !known[r.BuildingType] {
			p.errorf("row %d: unrecognized building_type %q", row, r.BuildingType)
		}
		if r.Lat < -90 || r.Lat > 90 {
			p.errorf("row %d: lat %v out of range", row, r.Lat)
		}
		if r.Lon < -180 || r.Lon > 180 {
			p.errorf("row %d: lon %v out of range", row, r.Lon)
		}
		if _, err := domain.LoadZone(r.TZ); err != nil {
			p.errorf("row %d: %v", row, err)
		}
	}
	return p
}

// ── Phase 2: offsets agree with the zone database ──

func validateTimestamps(records []domain.EnergyRecord, year int) *phase {
	p := &phase{name: "Timestamps (offsets, hour alignment, year)"}
	fmt.Println("Phase 2: Timestamps...")

	zones := make(map[string]*time.Location)
	for i, r := range records {
		row := i + 2
		loc, ok := zones[r.TZ]
		if !ok {
			var err error
			if loc, err = domain.LoadZone(r.TZ); err != nil {
				continue // reported by the schema phase
			}
			zones[r.TZ] = loc
		}

		_, written := r.Timestamp.Zone()
		local := r.Timestamp.In(loc)
		if _, want := local.Zone(); written != want {
			p.errorf("row %d: %s has offset %s, %s observes %s at that instant",
				row, r.Timestamp.Format(domain.TimestampLayout), fmtOffset(written), r.TZ, fmtOffset(want))
		}
		if local.Minute() != 0 || local.Second() != 0 {
			p.errorf("row %d: %s is not on the hour", row, r.Timestamp.Format(domain.TimestampLayout))
		}
		if !inReferenceYear(local, year, loc) {
			p.errorf("row %d: %s is outside reference year %d", row, r.Timestamp.Format(domain.TimestampLayout), year)
		}
	}
	return p
}

// inReferenceYear accepts the local midnight closing the year, which hour 24
// of December 31 maps to.
func inReferenceYear(local time.Time, year int, loc *time.Location) bool {
	if local.Year() == year {
		return true
	}
	return local.Equal(time.Date(year, time.December, 31, 0, 0, 0, 0, loc).Add(24 * time.Hour))
}

func fmtOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, seconds%3600/60)
}

// ── Phase 3: per-building ordering ──

// validateOrdering checks each building's records never move backwards in
// time. A DST shift may repeat an instant once, so at most two records may
// share one.
func validateOrdering(groups map[buildingKey][]domain.EnergyRecord) *phase {
	p := &phase{name: "Ordering (monotonic per building)"}
	fmt.Println("Phase 3: Ordering...")

	for _, k := range sortedKeys(groups) {
		recs := groups[k]
		seen := make(map[int64]int, len(recs))
		for i, r := range recs {
			if i > 0 && r.Timestamp.Before(recs[i-1].Timestamp) {
				p.errorf("%s: record %d (%s) precedes record %d (%s)", k, i, r.Timestamp.Format(domain.TimestampLayout),
					i-1, recs[i-1].Timestamp.Format(domain.TimestampLayout))
			}
			unix := r.Timestamp.Unix()
			seen[unix]++
			if seen[unix] == 3 {
				p.errorf("%s: instant %s appears more than twice", k, r.Timestamp.UTC().Format(time.RFC3339))
			}
		}
	}
	return p
}

// ── Phase 4: load values ──

func validateLoads(records []domain.EnergyRecord) *phase {
	p := &phase{name: "Loads (finite, non-negative)"}
	fmt.Println("Phase 4: Loads...")

	for i, r := range records {
		fields := []struct {
			name string
			v    float64
		}{
			{"main", r.Loads.Main},
			{"fans", r.Loads.Fans},
			{"cooling", r.Loads.Cooling},
			{"heating", r.Loads.Heating},
			{"interior_lights", r.Loads.InteriorLights},
			{"interior_equipment", r.Loads.InteriorEquipment},
		}
		for _, f := range fields {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				p.errorf("row %d: %s is not finite", i+2, f.name)
			} else if f.v < 0 {
				p.errorf("row %d: %s is negative (%v)", i+2, f.name, f.v)
			}
		}
	}
	return p
}

// ── Phase 5: cross-check against the corpus ──

// sourceCounts returns the number of readings in every building file of the
// corpus, keyed the way output records identify their building.
func sourceCounts(ctx context.Context, dir string) (map[buildingKey]int, error) {
	src := corpus.NewSource(dir)
	locations, err := src.LocationDirs(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[buildingKey]int)
	for _, loc := range locations {
		files, err := src.BuildingFiles(ctx, loc)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			zone, err := domain.ClimateZone(filepath.Base(f))
			if err != nil {
				continue
			}
			readings, err := src.ReadBuilding(ctx, f)
			if err != nil {
				return nil, err
			}
			counts[buildingKey{climateZone: zone, buildingType: domain.BuildingType(f)}] += len(readings)
		}
	}
	return counts, nil
}

func validateSourceCounts(groups map[buildingKey][]domain.EnergyRecord, counts map[buildingKey]int) *phase {
	p := &phase{name: "Source parity (records per building file)"}
	fmt.Println("Phase 5: Source parity...")

	for _, k := range sortedKeys(groups) {
		want, ok := counts[k]
		if !ok {
			p.errorf("%s: no matching building file in corpus", k)
			continue
		}
		if got := len(groups[k]); got != want {
			p.errorf("%s: %d records, source has %d readings", k, got, want)
		}
	}
	return p
}
