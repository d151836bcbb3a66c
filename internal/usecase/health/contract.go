package health

import "context"

// DBPinger checks shared store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks knowledge backend availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
