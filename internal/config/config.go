package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	StoreBackend           string
	MongoURI               string
	MongoDatabase          string
	MongoDashboardDatabase string
	MongoTimeout           time.Duration

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Generation settings. A zero StartDate means "derive from the clock".
	Seed         int64
	MonthCount   int
	StartDate    time.Time
	ProfilesFile string

	ChartDir string

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies may set X-Forwarded-For and X-Real-IP; the headers are
	// dropped from any other peer.
	TrustedProxies []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is applied first without overriding
// variables already present in the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mongoTimeout, err := parseDuration("MONGO_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseInt(envOrDefault("SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid SEED")
	}

	monthCount, err := strconv.Atoi(envOrDefault("MONTH_COUNT", "12"))
	if err != nil || monthCount <= 0 || monthCount > 600 {
		return nil, errors.New("invalid MONTH_COUNT: must be between 1 and 600")
	}

	var startDate time.Time
	if s := os.Getenv("START_DATE"); s != "" {
		startDate, err = time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("invalid START_DATE %q: want YYYY-MM-DD", s)
		}
	}

	rps, err := strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}
	burst, err := strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "40"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	trusted, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StoreBackend:           strings.ToLower(envOrDefault("STORE_BACKEND", BackendMongo)),
		MongoURI:               envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:          envOrDefault("MONGO_DATABASE", "tourism_db"),
		MongoDashboardDatabase: envOrDefault("MONGO_DASHBOARD_DATABASE", "tourism_dashboard"),
		MongoTimeout:           mongoTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "tourism-month-points"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Seed:         seed,
		MonthCount:   monthCount,
		StartDate:    startDate,
		ProfilesFile: os.Getenv("PROFILES_FILE"),

		ChartDir: envOrDefault("CHART_DIR", "charts"),

		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		TrustedProxies: trusted,
	}

	if cfg.StoreBackend != BackendMongo && cfg.StoreBackend != BackendMemory {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want mongo or memory", cfg.StoreBackend)
	}
	if cfg.StoreBackend == BackendMongo && cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// parseTrustedProxies reads a comma-separated list of IPs and CIDR ranges.
func parseTrustedProxies(s string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", item)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", item)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
