package tzdb

import (
	"time"

	"github.com/couchcryptid/energy-load-etl/internal/domain"
	"github.com/couchcryptid/energy-load-etl/internal/observability"
	"github.com/maypok86/otter/v2"
)

// CachedResolver wraps a ZoneResolver with an in-memory otter cache.
// Only successful lookups are cached.
type CachedResolver struct {
	inner   domain.ZoneResolver
	cache   *otter.Cache[string, *time.Location]
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a zone resolver.
// A nil inner resolver uses the embedded zone database.
func NewCachedResolver(inner domain.ZoneResolver, maxEntries int, metrics *observability.Metrics) *CachedResolver {
	if inner == nil {
		inner = domain.TZDatabase{}
	}
	return &CachedResolver{
		inner: inner,
		cache: otter.Must(&otter.Options[string, *time.Location]{
			MaximumSize: maxEntries,
		}),
		metrics: metrics,
	}
}

func (c *CachedResolver) Resolve(name string) (*time.Location, error) {
	if loc, ok := c.cache.GetIfPresent(name); ok {
		c.record("hit")
		return loc, nil
	}
	c.record("miss")

	loc, err := c.inner.Resolve(name)
	if err != nil {
		return nil, err
	}
	c.cache.Set(name, loc)
	return loc, nil
}

func (c *CachedResolver) record(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.ZoneCache.WithLabelValues(result).Inc()
}
