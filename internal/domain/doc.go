// Package domain models the DOE commercial reference building load profiles
// and the weather-station metadata used to place them on a real calendar.
//
// # Data Source
//
// Load profiles are hourly EnergyPlus simulation outputs, one CSV per
// reference building per TMY3 location:
//
//	commercial/USA_IL_Chicago-OHare.Intl.AP.725300/
//	    RefBldgHospitalNew2004_v1.3_7.1_5A_USA_IL_CHICAGO-OHARE.csv
//
// The directory name ends in the TMY3 station code, which is the WMO
// identifier plus one trailing digit. The file name carries the building
// type and, after "_USA_", the state and city of the climate zone.
//
// # Columns
//
// Only the date column and the electricity end uses are kept:
//
//	Date/Time                                   -> datetime
//	Electricity:Facility [kW](Hourly)           -> main
//	Fans:Electricity [kW](Hourly)               -> fans
//	Cooling:Electricity [kW](Hourly)            -> cooling
//	Heating:Electricity [kW](Hourly)            -> heating
//	InteriorLights:Electricity [kW](Hourly)     -> interior_lights
//	InteriorEquipment:Electricity [kW](Hourly)  -> interior_equipment
//
// # Time Convention
//
// The date column reads " MM/DD  HH:00:00" with no year and with hours 1-24:
// hour N is the reading that ends at N:00, so hour 24 closes the day. The
// simulation ignores daylight saving time, so each day has exactly 24 rows
// even on transition days. [Normalizer] pins every row to a reference year,
// resolves it in the station's time zone, and moves readings that fall in a
// skipped or repeated hour one hour forward. See [NormalizeIn].
//
// # Weather Stations
//
// Station metadata is a JSON array (Meteostat layout). Stations are matched
// on "id" or "identifiers.wmo" and contribute name, region, coordinates and
// IANA time zone to each record. See [StationIndex].
package domain
