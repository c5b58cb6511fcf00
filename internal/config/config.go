package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers    []string
	KafkaSinkTopic  string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// NASR distribution settings.
	DistributionDir string
	Families        []string // empty means every family found in DistributionDir
	MaxLineErrors   int      // per family; 0 aborts on the first bad line, -1 never aborts
	Concurrency     int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	maxLineErrors, err := parseInt("NASR_MAX_LINE_ERRORS", -1, -1)
	if err != nil {
		return nil, err
	}

	concurrency, err := parseInt("NASR_CONCURRENCY", 4, 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "nasr-records"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		DistributionDir: sharedcfg.EnvOrDefault("NASR_DISTRIBUTION_DIR", "data/nasr"),
		Families:        parseFamilies(os.Getenv("NASR_FAMILIES")),
		MaxLineErrors:   maxLineErrors,
		Concurrency:     concurrency,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// parseInt reads an integer key, rejecting values below minValue.
func parseInt(key string, def, minValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minValue {
		return 0, errors.New("invalid " + key + ": must be an integer >= " + strconv.Itoa(minValue))
	}
	return n, nil
}

// parseFamilies splits a comma-separated family list into upper-case names.
func parseFamilies(value string) []string {
	var out []string
	for _, f := range sharedcfg.ParseBrokers(value) {
		out = append(out, strings.ToUpper(f))
	}
	return out
}
