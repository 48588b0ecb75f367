package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Error policies for records the normalizer rejects.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	CommercialDir     string
	WeatherStations   string
	StationCountry    string
	OutputPath        string
	SampleProbability float64
	SampleSeed        uint64
	ReferenceYear     int
	OnError           string
	Workers           int
	ZoneCacheSize     int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	BatchSize       int

	// Optional Kafka sink for normalized records.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
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

	probability, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("SAMPLE_PROBABILITY", "0.01"), 64)
	if err != nil || probability <= 0 || probability > 1 {
		return nil, errors.New("invalid SAMPLE_PROBABILITY: must be in (0, 1]")
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("SAMPLE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid SAMPLE_SEED")
	}

	year, err := strconv.Atoi(sharedcfg.EnvOrDefault("REFERENCE_YEAR", "2023"))
	if err != nil || year < 1900 || year > 2100 {
		return nil, errors.New("invalid REFERENCE_YEAR")
	}

	workers, err := parsePositiveInt("WORKERS", runtime.GOMAXPROCS(0))
	if err != nil {
		return nil, err
	}

	zoneCacheSize, err := parsePositiveInt("ZONE_CACHE_SIZE", 512)
	if err != nil {
		return nil, err
	}

	onError := strings.ToLower(sharedcfg.EnvOrDefault("ON_ERROR", OnErrorAbort))
	if onError != OnErrorAbort && onError != OnErrorSkip {
		return nil, fmt.Errorf("invalid ON_ERROR %q: must be %q or %q", onError, OnErrorAbort, OnErrorSkip)
	}

	cfg := &Config{
		CommercialDir:     sharedcfg.EnvOrDefault("COMMERCIAL_DIR", "../energy/commercial"),
		WeatherStations:   sharedcfg.EnvOrDefault("WEATHER_STATIONS", "../energy/weather_stations_us.json"),
		StationCountry:    sharedcfg.EnvOrDefault("STATION_COUNTRY", "US"),
		OutputPath:        sharedcfg.EnvOrDefault("OUTPUT_PATH", "commercial.csv"),
		SampleProbability: probability,
		SampleSeed:        seed,
		ReferenceYear:     year,
		OnError:           onError,
		Workers:           workers,
		ZoneCacheSize:     zoneCacheSize,
		HTTPAddr:          os.Getenv("HTTP_ADDR"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		BatchSize:         batchSize,
		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:    sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "building-energy-records"),
	}

	if cfg.CommercialDir == "" {
		return nil, errors.New("COMMERCIAL_DIR is required")
	}
	if cfg.WeatherStations == "" {
		return nil, errors.New("WEATHER_STATIONS is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
