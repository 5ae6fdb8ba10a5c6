package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// LocationPingSource identifies how a ping's coordinates were obtained.
type LocationPingSource string

const (
	// LocationSourceGPS marks a ping reported automatically by the device.
	LocationSourceGPS LocationPingSource = "GPS"
	// LocationSourceManual marks a ping entered by hand.
	LocationSourceManual LocationPingSource = "MANUAL"
)

// LocationPing is one reported position of a Didi. Pings accumulate
// into a movement trail used by the dashboard to compute coverage.
type LocationPing struct {
	ID            uuid.UUID          // The unique identifier for the ping.
	DidiProfileID uuid.UUID          // The Didi profile this ping belongs to.
	Latitude      float64            // Reported latitude.
	Longitude     float64            // Reported longitude.
	Location      string             // Address or area name, if resolved.
	Source        LocationPingSource // How the coordinates were obtained.
	Accuracy      string             // GPS accuracy as reported by the device.
	Timestamp     time.Time          // When the position was recorded.
}

// NewLocationPing records a position for the given Didi profile.
func NewLocationPing(didiProfileID uuid.UUID, latitude, longitude float64, location string, source LocationPingSource, accuracy string) *LocationPing {
	if source == "" {
		source = LocationSourceGPS
	}

	return &LocationPing{
		ID:            uuid.New(),
		DidiProfileID: didiProfileID,
		Latitude:      latitude,
		Longitude:     longitude,
		Location:      location,
		Source:        source,
		Accuracy:      accuracy,
		Timestamp:     time.Now(),
	}
}

// Point returns the ping as an orb lon/lat point for geo math.
func (p *LocationPing) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}
