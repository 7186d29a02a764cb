package types

// Coordinates is a geocoded point, with the resolved display label when one
// is known.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label,omitempty"`
}

type Trip struct {
	From *Coordinates
	To   *Coordinates
}

// Route is the routing provider's answer: one section per transport mode,
// each carrying its geometry as an encoded polyline, plus totals for the
// whole trip.
type Route struct {
	Sections []Section
	Duration float64 // seconds
	Distance float64 // meters
}

type Section struct {
	Geometry string // flexible polyline
	Duration float64
	Distance float64
	Mode     string
}

// WaypointType classifies a point along the route.
type WaypointType string

const (
	WaypointOrigin         WaypointType = "origin"
	WaypointIntermediate   WaypointType = "intermediate"
	WaypointDestination    WaypointType = "destination"
	WaypointModeTransition WaypointType = "modeTransition"
	WaypointTransitStop    WaypointType = "transitStop"
)

// Waypoint is a sampled point along the route with its along-route distance
// and, once timing runs, its estimated arrival.
type Waypoint struct {
	Latitude              float64      `json:"latitude"`
	Longitude             float64      `json:"longitude"`
	DistanceFromStartM    float64      `json:"distance_from_start_m"`
	Type                  WaypointType `json:"type"`
	Mode                  string       `json:"mode,omitempty"`
	EstimatedArrivalEpoch int64        `json:"estimated_arrival_epoch"`
	EstimatedArrivalLabel string       `json:"estimated_arrival_label"`
}
