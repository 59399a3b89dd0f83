package config

import (
	"os"
	"strconv"
	"time"

	"samadhan/pkg/geo"
)

// Config captures process-level configuration. FromEnv builds it from
// environment variables so main stays lean.
type Config struct {
	Addr string

	// PostgresDSN selects the Postgres complaint store when set; the
	// in-memory store is used otherwise.
	PostgresDSN string

	// Redis powers the optional community-vote tally cache.
	Redis RedisConfig

	// ServiceArea bounds citizen- and officer-supplied positions.
	ServiceArea geo.Bounds

	// GeofenceToleranceMeters is the pass radius for officer presence checks.
	GeofenceToleranceMeters float64

	// SLAWindow is the fixed resolution deadline from submission.
	SLAWindow time.Duration

	Verification VerificationConfig
}

// RedisConfig mirrors the connection knobs the platform redis client accepts.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// VerificationConfig tunes the simulated verification engine.
type VerificationConfig struct {
	// QueueDepth bounds the FIFO admission queue; the in-flight slot stays 1.
	QueueDepth int
	// SuccessBias is the probability that visual change detection passes.
	SuccessBias float64
	// RunBudget caps one verification run end to end; on expiry the verdict
	// is Flagged with a diagnostic note.
	RunBudget time.Duration
	// StageDelay paces individual stages so checkpoints are observable.
	// Tests set it to zero.
	StageDelay time.Duration
}

// Defaults mirroring the original Jaipur deployment.
var defaultServiceArea = geo.Bounds{MinLat: 26.8, MaxLat: 27.0, MinLng: 75.7, MaxLng: 75.9}

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset.
func FromEnv() Config {
	cfg := Config{
		Addr:                    envString("SAMADHAN_ADDR", ":8080"),
		PostgresDSN:             os.Getenv("SAMADHAN_POSTGRES_DSN"),
		ServiceArea:             defaultServiceArea,
		GeofenceToleranceMeters: envFloat("SAMADHAN_GEOFENCE_TOLERANCE_M", 20),
		SLAWindow:               envDuration("SAMADHAN_SLA_WINDOW", 48*time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("SAMADHAN_REDIS_URL"),
			PoolSize:     envInt("SAMADHAN_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SAMADHAN_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("SAMADHAN_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SAMADHAN_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SAMADHAN_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Verification: VerificationConfig{
			QueueDepth:  envInt("SAMADHAN_VERIFY_QUEUE_DEPTH", 8),
			SuccessBias: envFloat("SAMADHAN_VERIFY_SUCCESS_BIAS", 0.9),
			RunBudget:   envDuration("SAMADHAN_VERIFY_RUN_BUDGET", 4*time.Second),
			StageDelay:  envDuration("SAMADHAN_VERIFY_STAGE_DELAY", 700*time.Millisecond),
		},
	}

	if v := os.Getenv("SAMADHAN_AREA_MIN_LAT"); v != "" {
		cfg.ServiceArea.MinLat = mustFloat(v, defaultServiceArea.MinLat)
		cfg.ServiceArea.MaxLat = envFloat("SAMADHAN_AREA_MAX_LAT", defaultServiceArea.MaxLat)
		cfg.ServiceArea.MinLng = envFloat("SAMADHAN_AREA_MIN_LNG", defaultServiceArea.MinLng)
		cfg.ServiceArea.MaxLng = envFloat("SAMADHAN_AREA_MAX_LNG", defaultServiceArea.MaxLng)
	}

	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		return mustFloat(v, fallback)
	}
	return fallback
}

func mustFloat(v string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
