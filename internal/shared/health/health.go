package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = 2 * time.Second

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Check probes one dependency. A failing non-critical check is reported as
// down but leaves the service healthy.
type Check struct {
	Name     string
	Critical bool
	Probe    func(ctx context.Context) error
}

func Postgres(pool *pgxpool.Pool) Check {
	return Check{Name: "database", Critical: true, Probe: pool.Ping}
}

func RabbitMQ(conn *amqp091.Connection) Check {
	return Check{Name: "rabbitmq", Critical: true, Probe: func(context.Context) error {
		if conn.IsClosed() {
			return errors.New("connection closed")
		}
		return nil
	}}
}

// Redis only backs rate limiting, so it degrades rather than fails.
func Redis(rdb *redis.Client) Check {
	return Check{Name: "redis", Probe: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}
}

// Handler runs every check on each request and answers 503 when a critical
// one fails.
func Handler(serviceName string, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "healthy",
			Service:   serviceName,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]string, len(checks)),
		}

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		for _, c := range checks {
			if err := c.Probe(ctx); err != nil {
				resp.Checks[c.Name] = "down"
				if c.Critical {
					resp.Status = "unhealthy"
				}
				continue
			}
			resp.Checks[c.Name] = "up"
		}

		statusCode := http.StatusOK
		if resp.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(resp)
	}
}
