package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/kilnchat/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a failing dependency; the service still answers with fallbacks.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const defaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	name     string
	upstream UpstreamChecker
	db       DBPinger
	timeout  time.Duration
}

// New creates a Service. name labels the upstream check ("qa", "openai"); upstream can be nil.
func New(name string, upstream UpstreamChecker) *Service {
	return &Service{name: name, upstream: upstream, timeout: defaultCheckTimeout}
}

// WithDB adds the shared rate limit store to the report under "database".
func (s *Service) WithDB(db DBPinger) *Service {
	s.db = db
	return s
}

// WithTimeout bounds each component check.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.upstream != nil {
		checks[s.name] = s.run(ctx, s.name, s.upstream.HealthCheck)
	}
	if s.db != nil {
		checks["database"] = s.run(ctx, "database", s.db.Ping)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, component string, check func(context.Context) error) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := check(checkCtx); err != nil {
		logpkg.FromContext(ctx).Warn("health check failed",
			zap.String("component", component), zap.Error(err))
		return CheckError
	}
	return CheckOK
}
