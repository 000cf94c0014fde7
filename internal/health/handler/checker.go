// Package handler reports readiness over gRPC (grpc.health.v1) and HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the grpc.health.v1 service name reported besides the overall "" entry.
const ServiceName = "nexus.v1.Nexus"

const checkTimeout = 3 * time.Second

// Pinger is used to check database connectivity (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker is used to verify the route policy engine is ready (e.g. the OPA evaluator).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Checker runs the readiness checks and publishes the result to a grpc health server.
type Checker struct {
	pinger Pinger
	policy PolicyChecker
	grpc   *health.Server
	log    *zap.Logger

	mu      sync.RWMutex
	serving bool
	reason  string
}

// NewChecker returns a Checker. pinger and policy may be nil; the corresponding check is skipped.
// hs may be nil when only the HTTP endpoint is used.
func NewChecker(pinger Pinger, policy PolicyChecker, hs *health.Server, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{pinger: pinger, policy: policy, grpc: hs, log: log.Named("health")}
}

// Check runs every check once, publishes the status, and reports whether the service is serving.
func (c *Checker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	reason := ""
	if c.pinger != nil {
		if err := c.pinger.PingContext(ctx); err != nil {
			reason = "database: " + err.Error()
		}
	}
	if reason == "" && c.policy != nil {
		if err := c.policy.HealthCheck(ctx); err != nil {
			reason = "policy: " + err.Error()
		}
	}
	serving := reason == ""

	c.mu.Lock()
	changed := serving != c.serving || reason != c.reason
	c.serving, c.reason = serving, reason
	c.mu.Unlock()

	if changed {
		if serving {
			c.log.Info("service ready")
		} else {
			c.log.Warn("service not ready", zap.String("reason", reason))
		}
	}
	if c.grpc != nil {
		st := healthpb.HealthCheckResponse_SERVING
		if !serving {
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
		c.grpc.SetServingStatus("", st)
		c.grpc.SetServingStatus(ServiceName, st)
	}
	return serving
}

// Run checks immediately and then every interval until ctx is done.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	c.Check(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Check(ctx)
		}
	}
}

type statusResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ServeHTTP runs the checks and answers 200 SERVING or 503 NOT_SERVING.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	serving := c.Check(r.Context())
	c.mu.RLock()
	resp := statusResponse{Status: "SERVING", Reason: c.reason}
	c.mu.RUnlock()
	code := http.StatusOK
	if !serving {
		resp.Status = "NOT_SERVING"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
