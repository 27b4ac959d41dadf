package domain

// Represents a single stop in a delivery run.
// A RunStop corresponds to arriving at one order's delivery point; the leg
// figures describe the hop from the previous stop (or the store).
type RunStop struct {
	OrderID     string
	Address     string
	Coordinates Coordinates
	LegMeters   int
	// LegMinutes is nil when the route service could not be reached.
	LegMinutes *int
}

// Represents the planned visiting order for one courier trip.
// A DeliveryRun is the output of the run planner and describes the ordered
// sequence of stops, along with aggregate distance and duration metrics.
// It is immutable planning data and contains no side effects.
type DeliveryRun struct {
	Start        Coordinates
	Stops        []RunStop
	TotalMeters  int
	TotalMinutes int
	// Complete is false when at least one leg has no duration.
	Complete bool
}
