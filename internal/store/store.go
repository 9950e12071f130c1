package store

import "context"

// Store defines the interface for experiment storage operations
type Store interface {
	// Experiment operations
	CreateExperiment(ctx context.Context, name, description string, variants []string, weights []float64) (*Experiment, error)
	GetExperiment(ctx context.Context, name string) (*Experiment, error)
	ListExperiments(ctx context.Context) ([]*Experiment, error)
	UpdateExperimentState(ctx context.Context, name string, state ExperimentState, winnerVariant *int) error
	SetWinner(ctx context.Context, name string, variant int) error
	DeleteExperiment(ctx context.Context, name string) error

	// Event operations
	RecordEvent(ctx context.Context, experimentName string, variant int, eventType string, visitorID string) error
	GetVariantMetrics(ctx context.Context, experimentName string) ([]VariantMetrics, error)
	GetEvents(ctx context.Context, experimentName string) ([]*Event, error)

	// Lifecycle
	Close() error
}
