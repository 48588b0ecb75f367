package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilding() Building {
	return Building{
		Path: testHospitalFile,
		Station: StationInfo{
			Name:  "Chicago O'Hare",
			State: "IL",
			Lat:   41.9786,
			Lon:   -87.9048,
			TZ:    testChicago,
		},
		Type:        "hospital",
		ClimateZone: "Chicago-Ohare IL",
	}
}

func TestNewEnergyRecord(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	loc, err := LoadZone(testChicago)
	require.NoError(t, err)
	ts := time.Date(2023, 3, 12, 3, 0, 0, 0, loc)
	loads := Loads{Main: 1300.5, Fans: 80, Cooling: 12.25, Heating: 3, InteriorLights: 200, InteriorEquipment: 450}

	rec := NewEnergyRecord(testBuilding(), Normalized{Instant: ts, Shifted: true}, loads)

	assert.True(t, strings.HasPrefix(rec.ID, "hospital-"))
	assert.Equal(t, ts, rec.Timestamp)
	assert.Equal(t, loads, rec.Loads)
	assert.Equal(t, "Chicago O'Hare", rec.Name)
	assert.Equal(t, "IL", rec.State)
	assert.Equal(t, 41.9786, rec.Lat)
	assert.Equal(t, -87.9048, rec.Lon)
	assert.Equal(t, testChicago, rec.TZ)
	assert.Equal(t, "hospital", rec.BuildingType)
	assert.Equal(t, "Chicago-Ohare IL", rec.ClimateZone)
	assert.True(t, rec.Shifted)
	assert.Equal(t, fixed, rec.IngestedAt)
}

func TestEnergyRecord_Values(t *testing.T) {
	loc, err := LoadZone(testChicago)
	require.NoError(t, err)

	rec := NewEnergyRecord(testBuilding(), Normalized{Instant: time.Date(2023, 7, 14, 15, 0, 0, 0, loc)}, Loads{Main: 10})
	values := rec.Values()

	require.Len(t, values, len(RecordColumns))
	assert.Equal(t, "2023-07-14 15:00:00-05:00", values[0])
	assert.Equal(t, 10.0, values[1])
	assert.Equal(t, "Chicago-Ohare IL", values[len(values)-1])
}

func TestEnergyRecord_JSON(t *testing.T) {
	rec := NewEnergyRecord(testBuilding(), Normalized{Instant: time.Date(2023, 1, 1, 7, 0, 0, 0, time.UTC)}, Loads{Main: 5, InteriorLights: 2})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, 5.0, fields["main"])
	assert.Equal(t, 2.0, fields["interior_lights"])
	assert.Equal(t, "hospital", fields["building_type"])
	assert.Equal(t, "2023-01-01T07:00:00Z", fields["datetime"])
	assert.NotContains(t, fields, "shifted")
}

func TestGenerateID(t *testing.T) {
	ts := time.Date(2023, 1, 1, 7, 0, 0, 0, time.UTC)
	raw := RawTimestamp{Month: 1, Day: 1, Hour: 1}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, generateID("hospital", testHospitalFile, raw, ts), generateID("hospital", testHospitalFile, raw, ts))
	})

	t.Run("same instant in another zone", func(t *testing.T) {
		loc, err := LoadZone(testChicago)
		require.NoError(t, err)
		assert.Equal(t, generateID("hospital", testHospitalFile, raw, ts), generateID("hospital", testHospitalFile, raw, ts.In(loc)))
	})

	t.Run("different hours differ", func(t *testing.T) {
		assert.NotEqual(t, generateID("hospital", testHospitalFile, raw, ts), generateID("hospital", testHospitalFile, raw, ts.Add(time.Hour)))
	})

	t.Run("empty type", func(t *testing.T) {
		id := generateID("", testHospitalFile, raw, ts)
		assert.Len(t, id, 16)
	})
}

func TestNewEnergyRecord_ShiftedReadingsKeepDistinctIDs(t *testing.T) {
	loc, err := LoadZone(testChicago)
	require.NoError(t, err)
	b := testBuilding()

	tests := []struct {
		name         string
		first, later RawTimestamp
	}{
		{"fall back overlap", RawTimestamp{Month: 11, Day: 5, Hour: 1}, RawTimestamp{Month: 11, Day: 5, Hour: 2}},
		{"spring forward gap", RawTimestamp{Month: 3, Day: 12, Hour: 2}, RawTimestamp{Month: 3, Day: 12, Hour: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n1, err := NormalizeIn(tt.first, 2023, loc)
			require.NoError(t, err)
			n2, err := NormalizeIn(tt.later, 2023, loc)
			require.NoError(t, err)
			require.True(t, n1.Instant.Equal(n2.Instant), "both readings land on one instant")

			r1 := NewEnergyRecord(b, n1, Loads{Main: 1})
			r2 := NewEnergyRecord(b, n2, Loads{Main: 2})
			assert.NotEqual(t, r1.ID, r2.ID)
		})
	}
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	assert.Equal(t, fixed, clock.Now())

	SetClock(nil)
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Second)
}
