package store

import "time"

type ExperimentState string

const (
	StateRunning   ExperimentState = "running"
	StatePaused    ExperimentState = "paused"
	StateCompleted ExperimentState = "completed"
)

// Event types recorded by the beacon. A "view" is an exposure; "trial" and
// "cta" are the two conversion goals experiments can be judged on.
const (
	EventView  = "view"
	EventTrial = "trial"
	EventCTA   = "cta"
)

type Experiment struct {
	ID            int64
	Name          string
	Description   string
	Variants      []string  // Decoded from JSON
	Weights       []float64 // Optional, decoded from JSON
	State         ExperimentState
	WinnerVariant *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Event struct {
	ID             int64
	ExperimentName string
	Variant        int
	EventType      string
	VisitorID      string
	CreatedAt      time.Time
}

// VariantMetrics is the per-arm aggregation the significance engine consumes:
// distinct visitors counted once per event type.
type VariantMetrics struct {
	Variant      int
	Views        int
	TrialSignups int
	CTAClicks    int
}
