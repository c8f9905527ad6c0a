package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tutor-settlement/internal/core/ports"
	"tutor-settlement/pkg/logger"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

type dependencyHealth struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. Every dependency is checked in parallel
// under its own deadline; one failing check marks the engine degraded (503)
// so the load balancer stops routing gateway callbacks to it.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			deps = make(map[string]dependencyHealth, len(checkers))
		)
		for _, checker := range checkers {
			wg.Add(1)
			go func(hc ports.HealthChecker) {
				defer wg.Done()
				result := checkDependency(c.Request.Context(), hc)
				mu.Lock()
				deps[hc.Name()] = result
				mu.Unlock()
			}(checker)
		}
		wg.Wait()

		status, code := "healthy", http.StatusOK
		for _, d := range deps {
			if d.Status != "healthy" {
				status, code = "degraded", http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(code, gin.H{
			"status":       status,
			"service":      logger.ServiceName,
			"checked_at":   time.Now().UTC().Format(time.RFC3339),
			"dependencies": deps,
		})
	}
}

func checkDependency(parent context.Context, hc ports.HealthChecker) dependencyHealth {
	ctx, cancel := context.WithTimeout(parent, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := hc.Ping(ctx)
	out := dependencyHealth{Status: "healthy", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		out.Status = "unhealthy"
		out.Error = err.Error()
	}
	return out
}
