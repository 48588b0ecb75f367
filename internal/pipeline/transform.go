package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
)

// TransformResult holds the records built from one building file.
type TransformResult struct {
	Records []domain.EnergyRecord
	Skipped int
	Shifted int
}

// RecordTransformer implements Transformer by normalizing each reading's
// timestamp in the building's station zone and tagging it with building
// metadata.
type RecordTransformer struct {
	normalizer *domain.Normalizer
	skip       bool
	logger     *slog.Logger
}

// NewTransformer creates a RecordTransformer. With skip set, readings the
// normalizer rejects are dropped and counted; otherwise the first rejection
// fails the building.
func NewTransformer(normalizer *domain.Normalizer, skip bool, logger *slog.Logger) *RecordTransformer {
	return &RecordTransformer{
		normalizer: normalizer,
		skip:       skip,
		logger:     logger,
	}
}

func (t *RecordTransformer) Transform(ctx context.Context, b domain.Building, readings []domain.RawReading) (TransformResult, error) {
	res := TransformResult{Records: make([]domain.EnergyRecord, 0, len(readings))}

	for i, r := range readings {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return TransformResult{}, err
			}
		}

		n, err := t.normalizer.NormalizeString(r.DateTime, b.Station.TZ)
		if err != nil {
			// Row numbers are 1-based and count the header line.
			err = fmt.Errorf("normalize %s row %d: %w", filepath.Base(b.Path), i+2, err)
			if !t.skip {
				return TransformResult{}, err
			}
			t.logger.Debug("skipping reading", "error", err)
			res.Skipped++
			continue
		}

		if n.Shifted {
			res.Shifted++
		}
		res.Records = append(res.Records, domain.NewEnergyRecord(b, n, r.Loads))
	}
	return res, nil
}
