package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHospitalFile = "commercial/USA_IL_Chicago-OHare.Intl.AP.725300/RefBldgHospitalNew2004_v1.3_7.1_5A_USA_IL_CHICAGO-OHARE.csv"

func TestBuildingType(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{testHospitalFile, "hospital"},
		{"RefBldgFullServiceRestaurantNew2004_v1.3_7.1_4A_USA_MD_BALTIMORE.csv", "full_service_restaurant"},
		{"RefBldgQuickServiceRestaurantNew2004_v1.3_7.1_4A_USA_MD_BALTIMORE.csv", "quick_service_restaurant"},
		{"RefBldgStand-aloneRetailNew2004_v1.3_7.1_2A_USA_TX_HOUSTON.csv", "standalone_retail"},
		{"RefBldgOutPatientNew2004_v1.3_7.1_3B_USA_NV_LAS_VEGAS.csv", "outpatient"},
		{"RefBldgSuperMarketNew2004_v1.3_7.1_6A_USA_MN_DULUTH.csv", "supermarket"},
		{"RefBldgDataCenterNew2004_v1.3_7.1_6A_USA_MN_DULUTH.csv", UnknownBuildingType},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildingType(tt.file))
		})
	}
}

func TestBuildingType_IgnoresDirectory(t *testing.T) {
	assert.Equal(t, UnknownBuildingType, BuildingType("Warehouse/USA_TX_X.725300/RefBldgDataCenter_USA_TX_X.csv"))
}

func TestClimateZone(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{testHospitalFile, "Chicago-Ohare IL"},
		{"RefBldgOutPatientNew2004_v1.3_7.1_3B_USA_NV_LAS_VEGAS.csv", "Las Vegas NV"},
		{"RefBldgWarehouseNew2004_v1.3_7.1_4A_USA_NY_NEW_YORK.csv", "New York NY"},
		{"RefBldgWarehouseNew2004_v1.3_7.1_5A_USA_IL_O'HARE.csv", "O'Hare IL"},
		{"MD_BALTIMORE.csv", "Baltimore MD"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := ClimateZone(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClimateZone_Invalid(t *testing.T) {
	for _, file := range []string{"RefBldgWarehouse_USA_MD.csv", "noseparator.csv"} {
		_, err := ClimateZone(file)
		require.ErrorIs(t, err, ErrInvalidBuildingFile, "file %q", file)
	}
}

func TestNewBuilding(t *testing.T) {
	station := StationInfo{Name: "Chicago O'Hare", State: "IL", TZ: testChicago}

	b, err := NewBuilding(testHospitalFile, station)
	require.NoError(t, err)

	assert.Equal(t, testHospitalFile, b.Path)
	assert.Equal(t, "hospital", b.Type)
	assert.Equal(t, "Chicago-Ohare IL", b.ClimateZone)
	assert.Equal(t, station, b.Station)
}

func TestBuildingTokens(t *testing.T) {
	tokens := BuildingTokens()
	require.Len(t, tokens, 16)
	for _, tok := range tokens {
		assert.NotEqual(t, UnknownBuildingType, BuildingType("RefBldg"+tok+"New2004_USA_IL_CHICAGO.csv"), tok)
	}
}
