package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// UnknownBuildingType labels files that match none of the reference buildings.
const UnknownBuildingType = "unknown"

// buildingTypes lists the DOE commercial reference buildings in match order.
var buildingTypes = []struct {
	token string
	label string
}{
	{"FullServiceRestaurant", "full_service_restaurant"},
	{"Hospital", "hospital"},
	{"LargeHotel", "large_hotel"},
	{"LargeOffice", "large_office"},
	{"MediumOffice", "medium_office"},
	{"MidriseApartment", "midrise_apartment"},
	{"OutPatient", "outpatient"},
	{"PrimarySchool", "primary_school"},
	{"QuickServiceRestaurant", "quick_service_restaurant"},
	{"SecondarySchool", "secondary_school"},
	{"SmallHotel", "small_hotel"},
	{"SmallOffice", "small_office"},
	{"Stand-aloneRetail", "standalone_retail"},
	{"StripMall", "strip_mall"},
	{"SuperMarket", "supermarket"},
	{"Warehouse", "warehouse"},
}

// BuildingTokens returns the file-name tokens of the known building types in
// match order.
func BuildingTokens() []string {
	tokens := make([]string, len(buildingTypes))
	for i, bt := range buildingTypes {
		tokens[i] = bt.token
	}
	return tokens
}

// Building is one sampled building file together with its tags.
type Building struct {
	Path        string
	Station     StationInfo
	Type        string
	ClimateZone string
}

// NewBuilding derives the building type and climate zone from the file name.
func NewBuilding(path string, station StationInfo) (Building, error) {
	zone, err := ClimateZone(path)
	if err != nil {
		return Building{}, err
	}
	return Building{
		Path:        path,
		Station:     station,
		Type:        BuildingType(path),
		ClimateZone: zone,
	}, nil
}

// BuildingType returns the snake_case label of the first reference building
// named in the file name, or UnknownBuildingType.
func BuildingType(filename string) string {
	base := filepath.Base(filename)
	for _, bt := range buildingTypes {
		if strings.Contains(base, bt.token) {
			return bt.label
		}
	}
	return UnknownBuildingType
}

// ClimateZone turns "RefBldgHospitalNew2004_v1.3_7.1_5A_USA_IL_CHICAGO-OHARE.csv"
// into "Chicago-Ohare IL".
func ClimateZone(filename string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if i := strings.LastIndex(name, "_USA_"); i >= 0 {
		name = name[i+len("_USA_"):]
	}

	state, city, ok := strings.Cut(name, "_")
	if !ok || state == "" || city == "" {
		return "", fmt.Errorf("%w: %q: expected ..._USA_<state>_<city>", ErrInvalidBuildingFile, filepath.Base(filename))
	}
	city = strings.ReplaceAll(city, "_", " ")
	return titleCase(city) + " " + state, nil
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "O'HARE" becomes "O'Hare".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
