package output

import (
	"sync/atomic"
	"time"
)

var displayLocation atomic.Pointer[time.Location]

// SetDisplayTimezone selects the IANA zone human output renders timestamps
// in. An empty name selects UTC; an unknown name leaves the current zone.
func SetDisplayTimezone(name string) error {
	if name == "" {
		displayLocation.Store(time.UTC)
		return nil
	}

	location, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	displayLocation.Store(location)
	return nil
}

func DisplayLocation() *time.Location {
	if location := displayLocation.Load(); location != nil {
		return location
	}
	return time.UTC
}

func CurrentDisplayTimezone() string {
	return DisplayLocation().String()
}
