package domain

import (
	"fmt"
	"strings"
	"time"

	// Embedded zone database so normalization does not depend on the host's zoneinfo.
	_ "time/tzdata"
)

// ZoneResolver maps an IANA time zone identifier to a location.
// Implementations return an error wrapping ErrInvalidZone for unknown names.
type ZoneResolver interface {
	Resolve(name string) (*time.Location, error)
}

// TZDatabase resolves zones directly against the zone database.
type TZDatabase struct{}

// Resolve loads name through LoadZone.
func (TZDatabase) Resolve(name string) (*time.Location, error) {
	return LoadZone(name)
}

// LoadZone resolves an IANA identifier. Empty names and "Local" are rejected
// because they would silently fall back to UTC or the host zone.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidZone, name, err)
	}
	return loc, nil
}
