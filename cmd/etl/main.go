package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/energy-load-etl/internal/adapter/corpus"
	httpadapter "github.com/couchcryptid/energy-load-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/energy-load-etl/internal/adapter/kafka"
	"github.com/couchcryptid/energy-load-etl/internal/adapter/output"
	"github.com/couchcryptid/energy-load-etl/internal/adapter/tzdb"
	"github.com/couchcryptid/energy-load-etl/internal/config"
	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/couchcryptid/energy-load-etl/internal/observability"
	"github.com/couchcryptid/energy-load-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("etl failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (err error) {
	stations, err := corpus.LoadStationIndex(cfg.WeatherStations, cfg.StationCountry)
	if err != nil {
		return err
	}
	logger.Info("weather stations loaded", "path", cfg.WeatherStations, "country", cfg.StationCountry, "stations", stations.Len())

	file, err := output.Open(cfg.OutputPath)
	if err != nil {
		return err
	}
	sinks := []output.Sink{file}
	if cfg.KafkaEnabled {
		sinks = append(sinks, kafkaadapter.NewWriter(cfg, logger))
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}
	loader := output.NewMultiLoader(sinks...)
	defer func() {
		if cerr := loader.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	zones := tzdb.NewCachedResolver(domain.TZDatabase{}, cfg.ZoneCacheSize, metrics)
	skip := cfg.OnError == config.OnErrorSkip
	transformer := pipeline.NewTransformer(domain.NewNormalizer(cfg.ReferenceYear, zones), skip, logger)

	p := pipeline.New(corpus.NewSource(cfg.CommercialDir), stations, transformer, loader, logger, metrics,
		pipeline.WithSampler(pipeline.NewBernoulliSampler(cfg.SampleProbability, cfg.SampleSeed)),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithSkipFailedBuildings(skip),
		pipeline.WithProgress(observability.NewProgress(os.Stderr, observability.DefaultProgressEvery)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, nil, logger)
		stopHTTP := srv.StartBackground(cfg.ShutdownTimeout)
		defer stopHTTP()
	}

	logger.Info("etl starting",
		"commercial_dir", cfg.CommercialDir,
		"output", cfg.OutputPath,
		"sample_probability", cfg.SampleProbability,
		"reference_year", cfg.ReferenceYear,
		"on_error", cfg.OnError,
	)

	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("etl complete",
		"locations", sum.Locations,
		"locations_skipped", sum.LocationsSkipped,
		"buildings_sampled", sum.BuildingsSampled,
		"buildings_included", sum.BuildingsIncluded,
		"buildings_failed", sum.BuildingsFailed,
		"records", sum.Records,
		"records_skipped", sum.RecordsSkipped,
		"records_shifted", sum.RecordsShifted,
		"duration", sum.Duration,
	)
	return nil
}
