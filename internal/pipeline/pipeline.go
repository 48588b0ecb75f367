package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/couchcryptid/energy-load-etl/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Source lists location directories and reads building files.
type Source interface {
	LocationDirs(ctx context.Context) ([]string, error)
	BuildingFiles(ctx context.Context, dir string) ([]string, error)
	ReadBuilding(ctx context.Context, path string) ([]domain.RawReading, error)
}

// StationLookup resolves a location directory's station code.
type StationLookup interface {
	Lookup(code string) (domain.StationInfo, bool)
}

// Transformer converts the readings of one building into energy records.
type Transformer interface {
	Transform(ctx context.Context, b domain.Building, readings []domain.RawReading) (TransformResult, error)
}

// BatchLoader writes the records of one building to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.EnergyRecord) error
}

// Sampler decides whether a building file is included in the dataset.
type Sampler interface {
	Include() bool
}

// Progress receives one tick per included building.
type Progress interface {
	Tick()
	Done()
}

// Summary reports what a run did.
type Summary struct {
	Locations         int
	LocationsSkipped  int
	BuildingsSeen     int
	BuildingsSampled  int
	BuildingsIncluded int
	BuildingsFailed   int
	Records           int
	RecordsSkipped    int
	RecordsShifted    int
	Duration          time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSampler sets the building sampler. The default includes every building.
func WithSampler(s Sampler) Option {
	return func(p *Pipeline) { p.sampler = s }
}

// WithWorkers sets how many buildings are read and normalized concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(pr Progress) Option {
	return func(p *Pipeline) { p.progress = pr }
}

// WithSkipFailedBuildings drops buildings that cannot be read or tagged
// instead of failing the run.
func WithSkipFailedBuildings(skip bool) Option {
	return func(p *Pipeline) { p.skipFailed = skip }
}

// Pipeline orchestrates the extract-transform-load pass over the corpus.
type Pipeline struct {
	source      Source
	stations    StationLookup
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	sampler     Sampler
	progress    Progress
	workers     int
	skipFailed  bool
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(src Source, stations StationLookup, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:      src,
		stations:    stations,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		sampler:     includeAll{},
		progress:    nopProgress{},
		workers:     runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once at least one building has been loaded,
// or an error describing why the job is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any buildings yet")
	}
	return nil
}

type job struct {
	path    string
	station domain.StationInfo
}

type result struct {
	records []domain.EnergyRecord
	skipped int
	shifted int
	failed  bool
}

// Run walks the corpus once, loading the records of every sampled building
// in path order. Buildings are processed concurrently in windows of at most
// `workers` files.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	p.logger.Info("pipeline started", "workers", p.workers)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var sum Summary
	jobs, err := p.plan(ctx, &sum)
	if err != nil {
		return sum, err
	}

	for lo := 0; lo < len(jobs); lo += p.workers {
		window := jobs[lo:min(lo+p.workers, len(jobs))]
		results, err := p.process(ctx, window)
		if err != nil {
			return sum, err
		}
		if err := p.load(ctx, window, results, &sum); err != nil {
			return sum, err
		}
	}

	p.progress.Done()
	sum.Duration = time.Since(start)
	p.logger.Info("pipeline finished",
		"buildings", sum.BuildingsIncluded,
		"records", sum.Records,
		"records_skipped", sum.RecordsSkipped,
		"records_shifted", sum.RecordsShifted,
		"duration", sum.Duration,
	)
	return sum, nil
}

// plan enumerates locations and samples building files. Sampling runs in a
// single goroutine in path order so that a seeded sampler is reproducible.
func (p *Pipeline) plan(ctx context.Context, sum *Summary) ([]job, error) {
	dirs, err := p.source.LocationDirs(ctx)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum.Locations++

		code, err := domain.StationCodeFromDir(dir)
		if err != nil {
			return nil, err
		}
		station, ok := p.stations.Lookup(code)
		if !ok {
			p.logger.Warn("no weather station for location, skipping", "dir", dir, "station", code)
			p.metrics.LocationsSkipped.Inc()
			sum.LocationsSkipped++
			continue
		}

		files, err := p.source.BuildingFiles(ctx, dir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			sum.BuildingsSeen++
			p.metrics.BuildingsSeen.Inc()
			if !p.sampler.Include() {
				continue
			}
			sum.BuildingsSampled++
			p.metrics.BuildingsSampled.Inc()
			jobs = append(jobs, job{path: f, station: station})
		}
	}

	p.logger.Info("corpus sampled",
		"locations", sum.Locations,
		"locations_skipped", sum.LocationsSkipped,
		"buildings_seen", sum.BuildingsSeen,
		"buildings_sampled", sum.BuildingsSampled,
	)
	return jobs, nil
}

func (p *Pipeline) process(ctx context.Context, window []job) ([]result, error) {
	results := make([]result, len(window))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range window {
		g.Go(func() error {
			res, err := p.processBuilding(gctx, j)
			if err != nil {
				if !p.skipFailed || gctx.Err() != nil {
					return err
				}
				p.logger.Warn("building failed, skipping", "path", j.path, "error", err)
				p.metrics.BuildingsFailed.Inc()
				results[i] = result{failed: true}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) processBuilding(ctx context.Context, j job) (result, error) {
	start := time.Now()

	b, err := domain.NewBuilding(j.path, j.station)
	if err != nil {
		return result{}, err
	}
	readings, err := p.source.ReadBuilding(ctx, j.path)
	if err != nil {
		return result{}, err
	}
	out, err := p.transformer.Transform(ctx, b, readings)
	if err != nil {
		return result{}, err
	}

	p.metrics.BuildingDuration.Observe(time.Since(start).Seconds())
	p.metrics.RecordsNormalized.Add(float64(len(out.Records)))
	p.metrics.RecordsSkipped.Add(float64(out.Skipped))
	p.metrics.RecordsShifted.Add(float64(out.Shifted))
	if out.Skipped > 0 {
		p.logger.Warn("readings skipped", "path", j.path, "skipped", out.Skipped)
	}
	return result{records: out.Records, skipped: out.Skipped, shifted: out.Shifted}, nil
}

func (p *Pipeline) load(ctx context.Context, window []job, results []result, sum *Summary) error {
	for i, res := range results {
		if res.failed {
			sum.BuildingsFailed++
			continue
		}
		if err := p.loader.LoadBatch(ctx, res.records); err != nil {
			return fmt.Errorf("load %s: %w", window[i].path, err)
		}

		p.metrics.RecordsLoaded.Add(float64(len(res.records)))
		p.ready.Store(true)
		p.progress.Tick()
		sum.BuildingsIncluded++
		sum.Records += len(res.records)
		sum.RecordsSkipped += res.skipped
		sum.RecordsShifted += res.shifted
	}
	return nil
}

type nopProgress struct{}

func (nopProgress) Tick() {}
func (nopProgress) Done() {}
