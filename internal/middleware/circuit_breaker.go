package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"todo-backend/pkg/api"
)

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ReadyToTrip trips once MinRequests have been seen and the failure
	// ratio reaches FailureThreshold
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

var errServerFailure = errors.New("handler returned a 5xx status")

// CircuitBreaker creates a circuit breaker middleware with the given
// configuration. Responses with a 5xx status count as failures; while the
// breaker is open requests are answered with 503.
func CircuitBreaker(config CircuitBreakerConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := cb.Execute(func() (interface{}, error) {
				wrapper := &responseWrapper{
					ResponseWriter: w,
					statusCode:     http.StatusOK,
				}

				next.ServeHTTP(wrapper, r)

				if wrapper.statusCode >= http.StatusInternalServerError {
					return nil, errServerFailure
				}
				return nil, nil
			})

			switch {
			case err == nil, errors.Is(err, errServerFailure):
				// The handler already wrote its response
			case errors.Is(err, gobreaker.ErrOpenState):
				logger.Warn("circuit breaker open, rejecting request",
					zap.String("name", config.Name),
					zap.String("path", r.URL.Path),
					zap.String("requestID", GetRequestIDFromRequest(r)),
				)
				api.Error(w, http.StatusServiceUnavailable, "Service temporarily unavailable - too many failures")
			case errors.Is(err, gobreaker.ErrTooManyRequests):
				api.Error(w, http.StatusServiceUnavailable, "Service temporarily unavailable - too many requests")
			default:
				logger.Error("circuit breaker internal error", zap.Error(err))
				api.Error(w, http.StatusInternalServerError, "Service error")
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
