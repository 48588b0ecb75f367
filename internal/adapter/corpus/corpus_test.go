package corpus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildingHeader = "Date/Time,Electricity:Facility [kW](Hourly),Fans:Electricity [kW](Hourly),Cooling:Electricity [kW](Hourly),Heating:Electricity [kW](Hourly),InteriorLights:Electricity [kW](Hourly),InteriorEquipment:Electricity [kW](Hourly),Gas:Facility [kW](Hourly)\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSource_LocationDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "USA_TX_Houston.722430", "a.csv"), buildingHeader)
	writeFile(t, filepath.Join(root, "USA_IL_Chicago-OHare.Intl.AP.725300", "b.csv"), buildingHeader)
	writeFile(t, filepath.Join(root, "README.txt"), "not a location")

	dirs, err := NewSource(root).LocationDirs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "USA_IL_Chicago-OHare.Intl.AP.725300"),
		filepath.Join(root, "USA_TX_Houston.722430"),
	}, dirs)
}

func TestSource_LocationDirs_MissingRoot(t *testing.T) {
	dirs, err := NewSource(filepath.Join(t.TempDir(), "missing")).LocationDirs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestSource_BuildingFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "USA_TX_Houston.722430")
	writeFile(t, filepath.Join(dir, "RefBldgWarehouse_USA_TX_HOUSTON.csv"), buildingHeader)
	writeFile(t, filepath.Join(dir, "RefBldgHospital_USA_TX_HOUSTON.csv"), buildingHeader)
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	files, err := NewSource(filepath.Dir(dir)).BuildingFiles(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "RefBldgHospital_USA_TX_HOUSTON.csv"),
		filepath.Join(dir, "RefBldgWarehouse_USA_TX_HOUSTON.csv"),
	}, files)
}

func TestSource_ReadBuilding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RefBldgHospital_USA_TX_HOUSTON.csv")
	writeFile(t, path, buildingHeader+
		" 01/01  01:00:00,1300.5,80,12.25,3,200,450,99\n"+
		" 01/01  24:00:00, 1200 ,70,0,0,150,400,98\n")

	readings, err := NewSource("").ReadBuilding(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, readings, 2)

	assert.Equal(t, domain.RawReading{
		DateTime: " 01/01  01:00:00",
		Loads:    domain.Loads{Main: 1300.5, Fans: 80, Cooling: 12.25, Heating: 3, InteriorLights: 200, InteriorEquipment: 450},
	}, readings[0])
	assert.Equal(t, 1200.0, readings[1].Loads.Main)
	assert.Equal(t, " 01/01  24:00:00", readings[1].DateTime)
}

func TestSource_ReadBuilding_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.csv")
	writeFile(t, path, "Date/Time,Electricity:Facility [kW](Hourly)\n 07/04  12:00:00,42\n")

	readings, err := NewSource("").ReadBuilding(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, domain.Loads{Main: 42}, readings[0].Loads)
}

func TestSource_ReadBuilding_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewSource(dir).ReadBuilding(context.Background(), filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
	})

	t.Run("bad number", func(t *testing.T) {
		path := filepath.Join(dir, "bad.csv")
		writeFile(t, path, buildingHeader+" 01/01  01:00:00,lots,0,0,0,0,0,0\n")
		_, err := NewSource(dir).ReadBuilding(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.csv")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewSource(dir).ReadBuilding(ctx, filepath.Join(dir, "bad.csv"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

const stationsJSON = `[
  {"id": "72530", "country": "US", "region": "IL", "timezone": "America/Chicago",
   "name": {"en": "Chicago O'Hare"}, "identifiers": {"wmo": "72530"},
   "location": {"latitude": 41.9786, "longitude": -87.9048, "elevation": 205}},
  {"id": "71508", "country": "CA", "region": "ON", "timezone": "America/Toronto",
   "name": {"en": "Toronto"}, "identifiers": {"wmo": "71508"},
   "location": {"latitude": 43.67, "longitude": -79.4}},
  {"id": "KHOU0", "country": "US", "region": "TX", "timezone": "America/Chicago",
   "name": {"en": "Houston Hobby"}, "identifiers": {"wmo": "72243"},
   "location": {"latitude": 29.65, "longitude": -95.28}}
]`

func TestLoadStationIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	writeFile(t, path, stationsJSON)

	idx, err := LoadStationIndex(path, "US")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	info, ok := idx.Lookup("72243")
	require.True(t, ok)
	assert.Equal(t, "Houston Hobby", info.Name)

	_, ok = idx.Lookup("71508")
	assert.False(t, ok, "foreign station filtered out")

	all, err := LoadStationIndex(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())
}

func TestLoadStations_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadStations(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"not": "an array"}`)
	_, err = LoadStations(bad)
	require.Error(t, err)
}

func TestFilterStations(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stations.json")
	out := filepath.Join(dir, "stations_us.json")
	writeFile(t, in, stationsJSON)

	kept, total, err := FilterStations(in, out, "US")
	require.NoError(t, err)
	assert.Equal(t, 2, kept)
	assert.Equal(t, 3, total)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "72530", raw[0]["id"])
	assert.Equal(t, 205.0, raw[0]["location"].(map[string]any)["elevation"], "unknown fields preserved")

	stations, err := LoadStations(out)
	require.NoError(t, err)
	assert.Equal(t, "Houston Hobby", stations[1].Name.EN)
}

func TestWriteBuilding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RefBldgHospital_USA_TX_HOUSTON.csv")
	in := []domain.RawReading{
		{DateTime: FormatSourceTimestamp(domain.RawTimestamp{Month: 1, Day: 1, Hour: 24}), Loads: domain.Loads{Main: 10.5, Heating: 2}},
	}
	require.NoError(t, WriteBuilding(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date/Time,Electricity:Facility [kW](Hourly),")
	assert.Contains(t, string(data), `" 01/01  24:00:00",10.5,`)

	out, err := NewSource("").ReadBuilding(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
