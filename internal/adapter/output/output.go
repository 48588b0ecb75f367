package output

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
)

// Sink is a batch loader that must be closed to finish its output.
type Sink interface {
	LoadBatch(ctx context.Context, records []domain.EnergyRecord) error
	io.Closer
}

// Open picks a file writer from the extension of path: .xlsx writes a
// workbook, anything else CSV.
func Open(path string) (Sink, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSXWriter(path)
	}
	return NewCSVWriter(path)
}

// MultiLoader fans each batch out to several sinks in order.
// It implements pipeline.BatchLoader.
type MultiLoader struct {
	sinks []Sink
}

// NewMultiLoader combines sinks. Nil sinks are dropped.
func NewMultiLoader(sinks ...Sink) *MultiLoader {
	m := &MultiLoader{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// LoadBatch stops at the first sink that fails.
func (m *MultiLoader) LoadBatch(ctx context.Context, records []domain.EnergyRecord) error {
	for _, s := range m.sinks {
		if err := s.LoadBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m *MultiLoader) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
